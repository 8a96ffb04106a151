// Package main provides the offloadcfg CLI, which derives the feature flags
// and tool substitutions of a GPU offload test run.
package main

func main() {
	Execute()
}
