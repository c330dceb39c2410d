package cmd

import (
	"fmt"

	"github.com/BurntSushi/toml"
	"github.com/spf13/cobra"

	"github.com/gizzahub/gzh-wt/pkg/config"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Inspect and manage gzh-wt's user configuration",
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the resolved user configuration as TOML",
	RunE:  runConfigShow,
}

var configApprovalsCmd = &cobra.Command{
	Use:   "approvals",
	Short: "Manage the approved-commands list for the current project",
}

var configApprovalsListCmd = &cobra.Command{
	Use:   "list",
	Short: "Show the approved hook commands for this project",
	RunE:  runConfigApprovalsList,
}

var configApprovalsAddCmd = &cobra.Command{
	Use:   "add <command>",
	Short: "Approve a hook command template for this project",
	Args:  cobra.ExactArgs(1),
	RunE:  runConfigApprovalsAdd,
}

var configApprovalsClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Revoke every approved command for this project",
	RunE:  runConfigApprovalsClear,
}

func init() {
	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configApprovalsCmd)
	configApprovalsCmd.AddCommand(configApprovalsListCmd)
	configApprovalsCmd.AddCommand(configApprovalsAddCmd)
	configApprovalsCmd.AddCommand(configApprovalsClearCmd)
}

func runConfigShow(cmd *cobra.Command, args []string) error {
	cfg, err := config.LoadUser()
	if err != nil {
		return err
	}
	return toml.NewEncoder(cmd.OutOrStdout()).Encode(cfg)
}

func runConfigApprovalsList(cmd *cobra.Command, args []string) error {
	cc, err := openCmdContext("config")
	if err != nil {
		return err
	}
	projectID, err := cc.repo.ProjectIdentifier(cc.ctx, cc.exec)
	if err != nil {
		return err
	}
	entry := cc.userCfg.Project(projectID)
	if len(entry.ApprovedCommands) == 0 {
		fmt.Printf("no approved commands for %s\n", projectID)
		return nil
	}
	for _, command := range entry.ApprovedCommands {
		fmt.Println(command)
	}
	return nil
}

func runConfigApprovalsAdd(cmd *cobra.Command, args []string) error {
	cc, err := openCmdContext("config")
	if err != nil {
		return err
	}
	projectID, err := cc.repo.ProjectIdentifier(cc.ctx, cc.exec)
	if err != nil {
		return err
	}
	configPath, ok := config.UserConfigPath()
	if !ok {
		return fmt.Errorf("could not determine user config path")
	}
	if err := config.ApproveCommand(configPath, projectID, args[0]); err != nil {
		return err
	}
	fmt.Printf("approved %q for %s\n", args[0], projectID)
	return nil
}

func runConfigApprovalsClear(cmd *cobra.Command, args []string) error {
	cc, err := openCmdContext("config")
	if err != nil {
		return err
	}
	projectID, err := cc.repo.ProjectIdentifier(cc.ctx, cc.exec)
	if err != nil {
		return err
	}
	configPath, ok := config.UserConfigPath()
	if !ok {
		return fmt.Errorf("could not determine user config path")
	}
	if err := config.ClearProjectApprovals(configPath, projectID); err != nil {
		return err
	}
	fmt.Printf("cleared all approvals for %s\n", projectID)
	return nil
}
