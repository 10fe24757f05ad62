package main

import (
	"fmt"
	"os"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/predql/predql"
	"github.com/predql/predql/jsondoc"
)

// Config holds the command's settings, sourced from flags, environment
// variables (PREDQL_*), and an optional config file, in that precedence.
type Config struct {
	SchemaPath  string `mapstructure:"schema"`
	RecordsPath string `mapstructure:"records"`
	Explain     bool   `mapstructure:"explain"`
}

func LoadConfig() (Config, error) {
	viper.SetDefault("schema", "schema.yaml")

	if err := viper.BindPFlags(pflag.CommandLine); err != nil {
		return Config{}, err
	}

	viper.AutomaticEnv()
	viper.SetEnvPrefix("PREDQL")

	if configFile := viper.GetString("config"); configFile != "" {
		viper.SetConfigFile(configFile)
		if err := viper.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("reading config file: %v", err)
		}
	}

	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("unable to decode configuration: %v", err)
	}
	return cfg, nil
}

// schemaFile is the YAML shape of a schema definition:
//
//	name: Person
//	fields:
//	  - name: Age
//	    kind: int
//	  - name: Address
//	    kind: object
//	    fields:
//	      - name: City
//	        kind: string
type schemaFile struct {
	Name   string          `yaml:"name"`
	Fields []jsondoc.Field `yaml:"fields"`
}

func LoadSchema(path string) (*predql.Schema, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var sf schemaFile
	if err := yaml.Unmarshal(data, &sf); err != nil {
		return nil, fmt.Errorf("parsing schema %s: %v", path, err)
	}
	if sf.Name == "" {
		sf.Name = "Record"
	}
	return jsondoc.Schema(sf.Name, sf.Fields)
}
