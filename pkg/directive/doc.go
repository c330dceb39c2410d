// Package directive implements the shell-directive protocol that lets a
// gzh-wt subcommand change the calling shell's working directory (and,
// with --execute, run an arbitrary command) despite a subprocess never
// being able to mutate its parent's environment directly. The parent shell
// is expected to be wrapped so it sources a temp file named by
// GZH_WT_DIRECTIVE_FILE after every invocation; gzh-wt writes at most one
// "cd '<path>'" line to that file and keeps all its normal output on
// stdout/stderr untouched.
package directive
