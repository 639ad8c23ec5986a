package main

// Set at build time with -ldflags "-X main.gitSHA1=...".
var (
	version  string = "0.1.0"
	gitSHA1  string = "unknown"
	gitDirty string = "unknown"
)
