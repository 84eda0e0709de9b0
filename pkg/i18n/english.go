package i18n

// englishSet is the main translation set of the program
func englishSet() TranslationSet {
	return TranslationSet{
		ProgramDescription: "Read an SELinux policy package (.pp) and output the equivalent CIL",
		UsageExtra:         "If IN_FILE is not provided or is -, the policy package is read from standard input. If OUT_FILE is not provided or is -, CIL is output to standard output.",

		FailedToOpenFileError:  "Failed to open %s: %s",
		FailedToDecodeError:    "Failed to read policy package: %s",
		FailedToTranslateError: "Failed to translate policy package: %s",
	}
}
