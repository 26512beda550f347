// Copyright 2019 the orbs-network-go authors
// This file is part of the orbs-network-go library in the Orbs project.
//
// This source code is licensed under the MIT license found in the LICENSE file in the root directory of this source tree.
// The above notice should be included in all copies or substantial portions of the software.

package config

import (
	"encoding/json"
	"io/ioutil"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/orbs-network/tx-status-oracle/fixedgiga"
	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

func modifyFromJson(cfg MutableOracleConfig, source string) error {
	var data map[string]interface{}
	if err := json.Unmarshal([]byte(source), &data); err != nil {
		return err
	}

	return populateConfig(cfg, data)
}

func modifyFromYaml(cfg MutableOracleConfig, source string) error {
	var data map[string]interface{}
	if err := yaml.Unmarshal([]byte(source), &data); err != nil {
		return err
	}

	return populateConfig(cfg, data)
}

func convertKeyName(key string) string {
	return strings.ToUpper(strings.Replace(key, "-", "_", -1))
}

func populateConfig(cfg MutableOracleConfig, data map[string]interface{}) error {
	for key, value := range data {
		name := convertKeyName(key)

		if gigaKeys[name] {
			g, err := gigaFromValue(value)
			if err != nil {
				return errors.Wrapf(err, "could not decode value for config key %s", key)
			}
			cfg.SetGiga(name, g)
			continue
		}

		switch v := value.(type) {
		case bool:
			cfg.SetBool(name, v)
		case float64:
			if err := setNumber(cfg, name, uint64(v), v < 0); err != nil {
				return errors.Wrapf(err, "could not decode value for config key %s", key)
			}
		case int:
			if err := setNumber(cfg, name, uint64(v), v < 0); err != nil {
				return errors.Wrapf(err, "could not decode value for config key %s", key)
			}
		case string:
			if duration, decodeError := time.ParseDuration(v); decodeError != nil {
				cfg.SetString(name, v)
			} else {
				cfg.SetDuration(name, duration)
			}
		default:
			return errors.Errorf("unsupported value type %T for config key %s", value, key)
		}
	}

	return nil
}

func setNumber(cfg MutableOracleConfig, name string, value uint64, negative bool) error {
	if negative {
		return errors.New("negative values are not supported")
	}
	if uint64Keys[name] {
		cfg.SetUint64(name, value)
		return nil
	}
	if value > uint64(^uint32(0)) {
		return errors.Errorf("value %d does not fit in 32 bits", value)
	}
	cfg.SetUint32(name, uint32(value))
	return nil
}

func gigaFromValue(value interface{}) (fixedgiga.Giga, error) {
	switch v := value.(type) {
	case string:
		return fixedgiga.Parse(v)
	case float64:
		return fixedgiga.Parse(strconv.FormatFloat(v, 'f', -1, 64))
	case int:
		return fixedgiga.Parse(strconv.Itoa(v))
	}
	return 0, errors.Errorf("unsupported fixed-point value type %T", value)
}

// For main reading several files into one config

type FilesPaths []string

func (i *FilesPaths) String() string {
	return strings.Join(*i, ",")
}

func (i *FilesPaths) Set(value string) error {
	*i = append(*i, value)
	return nil
}

// GetOracleConfigFromFiles overlays each file, in order, on top of the production preset.
// Files ending with .yaml or .yml are read as YAML, anything else as JSON.
func GetOracleConfigFromFiles(configFiles FilesPaths, repositoryDir string) (OracleConfig, error) {
	cfg := ForProduction(repositoryDir)

	for _, configFile := range configFiles {
		if _, err := os.Stat(configFile); os.IsNotExist(err) {
			return nil, errors.Errorf("could not open config file: %s", err)
		}

		contents, err := ioutil.ReadFile(configFile)
		if err != nil {
			return nil, err
		}

		switch strings.ToLower(filepath.Ext(configFile)) {
		case ".yaml", ".yml":
			err = modifyFromYaml(cfg, string(contents))
		default:
			err = modifyFromJson(cfg, string(contents))
		}
		if err != nil {
			return nil, errors.Wrapf(err, "failed parsing config file %s", configFile)
		}
	}

	return cfg, nil
}
