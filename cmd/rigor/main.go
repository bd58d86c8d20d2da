// Command rigor renders rigor nodes from the command line and serves the
// demo components over HTTP.
package main

func main() {
	Execute()
}
