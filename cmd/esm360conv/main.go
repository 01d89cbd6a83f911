// Command esm360conv is the CLI front end for package esm.
package main

func main() {
	execute()
}
