package main

import "sunrise/cmd/sr/root"

func main() {
	root.Execute()
}
