// Package logger records shell events (commands run, job state changes) as
// newline delimited JSON so sessions can be reviewed later.
package logger
