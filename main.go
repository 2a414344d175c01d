// Command html22text converts HTML documents to plain text or Markdown.
package main

import "github.com/gaurav-prasanna/html22text/cmd"

func main() {
	cmd.Execute()
}
