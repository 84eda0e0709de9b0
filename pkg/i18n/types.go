package i18n

// TranslationSet is a set of localised strings for a given language
type TranslationSet struct {
	ProgramDescription string
	UsageExtra         string

	FailedToOpenFileError  string
	FailedToDecodeError    string
	FailedToTranslateError string
}
