package main

import (
	"fmt"
	"os"
	"os/signal"
	"runtime"
	"syscall"

	"github.com/fatih/color"
	"github.com/integrii/flaggy"

	"github.com/artyom-smirnov/selinux/pkg/app"
	"github.com/artyom-smirnov/selinux/pkg/config"
	"github.com/artyom-smirnov/selinux/pkg/i18n"
	"github.com/artyom-smirnov/selinux/pkg/policy"
	"github.com/artyom-smirnov/selinux/pkg/utils"
)

const DEFAULT_VERSION = "unversioned"

var (
	commit  string
	version = DEFAULT_VERSION

	debuggingFlag = false
	inFile        = ""
	outFile       = ""
)

func main() {
	// ignore sigpipe so we can check the result of every write and report
	// a more helpful error message than a signal death
	signal.Ignore(syscall.SIGPIPE)

	tr := i18n.NewTranslationSet(nil)

	info := fmt.Sprintf(
		"%s\nCommit: %s\nOS: %s\nArch: %s",
		version,
		commit,
		runtime.GOOS,
		runtime.GOARCH,
	)

	flaggy.SetName("pptocil")
	flaggy.SetDescription(tr.ProgramDescription)
	flaggy.DefaultParser.AdditionalHelpPrepend = tr.UsageExtra

	flaggy.Bool(&debuggingFlag, "d", "debug", "a boolean")
	flaggy.AddPositionalValue(&inFile, "IN_FILE", 1, false, "policy package to read, - for standard input")
	flaggy.AddPositionalValue(&outFile, "OUT_FILE", 2, false, "CIL file to write, - for standard output")
	flaggy.SetVersion(info)

	flaggy.Parse()

	appConfig, err := config.NewAppConfig("pptocil", version, debuggingFlag)
	if err != nil {
		die(err.Error())
	}

	app, err := app.NewApp(appConfig, policy.Decode)
	if err != nil {
		die(err.Error())
	}

	in := os.Stdin
	if inFile != "" && inFile != "-" {
		in, err = os.Open(inFile)
		if err != nil {
			die(fmt.Sprintf(app.Tr.FailedToOpenFileError, inFile, err))
		}
		defer in.Close()
	}

	out := os.Stdout
	ownedOutput := false
	if outFile != "" && outFile != "-" {
		out, err = os.OpenFile(outFile, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o666)
		if err != nil {
			die(fmt.Sprintf(app.Tr.FailedToOpenFileError, outFile, err))
		}
		ownedOutput = true
	}

	if err := app.Run(in, out); err != nil {
		app.Log.Error(err.Error())
		if ownedOutput {
			// a truncated CIL file is worse than none
			out.Close()
			os.Remove(outFile)
		}
		die(err.Error())
	}

	if ownedOutput {
		if err := out.Close(); err != nil {
			os.Remove(outFile)
			die(err.Error())
		}
	}
}

func die(message string) {
	fmt.Fprintln(os.Stderr, utils.ColoredString(message, color.FgRed))
	os.Exit(1)
}
