// Command folio is the CLI surface over the knowledge store: initialize
// subjects and modules, generate-and-save study content, and print the
// scanned structure.
package main

import (
	"fmt"
	"log"
	"os"
)

func main() {
	if len(os.Args) < 2 {
		usage()
		os.Exit(2)
	}
	var err error
	switch os.Args[1] {
	case "init-subject":
		err = runInitSubject(os.Args[2:])
	case "init-module":
		err = runInitModule(os.Args[2:])
	case "save":
		err = runSave(os.Args[2:])
	case "scan":
		err = runScan(os.Args[2:])
	default:
		usage()
		os.Exit(2)
	}
	if err != nil {
		log.Fatal(err)
	}
}

func usage() {
	fmt.Fprintln(os.Stderr, `usage: folio <command> [flags]

commands:
  init-subject  -name <subject>
  init-module   -subject <s> -module <m> -syllabus <file> [-offline]
  save          -subject <s> -topic <t> -kind <k|all>
  scan          [-json]`)
}
