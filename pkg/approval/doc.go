// Package approval implements the interactive batch-approval prompt hook
// commands are gated through: a huh form previews every pending command and
// lets the user accept or decline each one, persisting acceptances to the
// user config so the same command never prompts again.
package approval
