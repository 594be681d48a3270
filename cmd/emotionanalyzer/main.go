package main

import "emotionanalyzer/internal/cli"

func main() {
	cli.Execute()
}
