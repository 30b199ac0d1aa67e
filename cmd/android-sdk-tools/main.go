package main

import "github.com/oshokin/android-sdk-tools/cmd/android-sdk-tools/cmd"

func main() {
	cmd.Execute()
}
