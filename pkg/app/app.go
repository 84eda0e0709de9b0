package app

import (
	"io"
	"os"

	"github.com/sirupsen/logrus"

	"github.com/artyom-smirnov/selinux/pkg/cil"
	"github.com/artyom-smirnov/selinux/pkg/config"
	"github.com/artyom-smirnov/selinux/pkg/i18n"
	"github.com/artyom-smirnov/selinux/pkg/log"
	"github.com/artyom-smirnov/selinux/pkg/policy"
)

// App struct
type App struct {
	closers []io.Closer

	Config *config.AppConfig
	Log    *logrus.Entry
	Tr     *i18n.TranslationSet

	// Decode turns the raw package bytes into the policy model. The
	// reference decoder is an external collaborator; tests inject fakes.
	Decode policy.DecodeFunc
}

// NewApp bootstrap a new application
func NewApp(config *config.AppConfig, decode policy.DecodeFunc) (*App, error) {
	app := &App{
		closers: []io.Closer{},
		Config:  config,
		Decode:  decode,
	}
	app.Log = log.NewLogger(config)
	app.Tr = i18n.NewTranslationSet(app.Log)

	return app, nil
}

// Run reads a policy package from in and writes its CIL rendition to out.
func (app *App) Run(in io.Reader, out io.Writer) error {
	data, err := readPackage(in)
	if err != nil {
		return err
	}

	pkg, err := app.Decode(data)
	if err != nil {
		return err
	}

	return cil.Translate(pkg, out, cil.Options{
		Log:             app.Log,
		CompatAuditdeny: app.Config.UserConfig.CompatAuditdeny,
	})
}

// readPackage buffers the input. Pipes and sockets cannot be sized up
// front, so they go through the doubling reader.
func readPackage(in io.Reader) ([]byte, error) {
	if f, ok := in.(*os.File); ok {
		if fi, err := f.Stat(); err == nil {
			if fi.Mode()&(os.ModeNamedPipe|os.ModeSocket) != 0 {
				return policy.ReadAll(f)
			}
		}
	}
	return io.ReadAll(in)
}

// Close closes any resources
func (app *App) Close() error {
	for _, closer := range app.closers {
		err := closer.Close()
		if err != nil {
			return err
		}
	}
	return nil
}
