package logging

import (
	"os"

	log "github.com/sirupsen/logrus"
)

// serviceHook stamps every entry with the name of the running binary.
type serviceHook struct {
	service string
}

func (h serviceHook) Levels() []log.Level {
	return log.AllLevels
}

func (h serviceHook) Fire(e *log.Entry) error {
	if _, ok := e.Data["service"]; !ok {
		e.Data["service"] = h.service
	}
	return nil
}

// Setup configures the global logrus logger. Production emits JSON, everything else text.
// Every line carries a service field. Calling Setup again replaces the previous service name.
func Setup(service string, production bool, level string) {
	log.SetOutput(os.Stdout)
	if production {
		log.SetFormatter(&log.JSONFormatter{})
	} else {
		log.SetFormatter(&log.TextFormatter{FullTimestamp: true})
	}

	lvl, err := log.ParseLevel(level)
	if err != nil {
		log.Warnf("invalid log level %q, using info", level)
		lvl = log.InfoLevel
	}
	log.SetLevel(lvl)

	hooks := make(log.LevelHooks)
	for lv, hs := range log.StandardLogger().Hooks {
		for _, hk := range hs {
			if _, ok := hk.(serviceHook); !ok {
				hooks[lv] = append(hooks[lv], hk)
			}
		}
	}
	log.StandardLogger().ReplaceHooks(hooks)
	log.AddHook(serviceHook{service: service})
}
