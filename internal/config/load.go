package config

import (
	"encoding/json"
	"os"

	"github.com/pkg/errors"
	"github.com/spf13/afero"
	"github.com/tauraamui/dragoneye/pkg/configdef"
	"github.com/tauraamui/dragoneye/pkg/log"
)

func load() (configdef.Values, error) {
	values := defaultValues()

	configPath, err := resolveConfigPath()
	if err != nil {
		return configdef.Values{}, err
	}

	log.Info("Resolved config file location: %s", configPath)
	file, err := readConfigFile(configPath)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			log.Warn("No config file found at %s, using defaults", configPath)
			return values, nil
		}
		return configdef.Values{}, errors.Wrapf(err, "unable to read config file %s", configPath)
	}

	// fields missing from the file keep their default values
	if err := unmarshal(file, &values); err != nil {
		return configdef.Values{}, err
	}

	if err = values.RunValidate(); err != nil {
		return configdef.Values{}, err
	}

	return values, nil
}

var readConfigFile = func(path string) ([]byte, error) {
	return afero.ReadFile(fs, path)
}

func unmarshal(content []byte, values *configdef.Values) error {
	err := json.Unmarshal(content, values)
	if err != nil {
		return errors.Wrap(err, "parsing configuration error")
	}
	return nil
}
