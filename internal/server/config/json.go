package config

import (
	"encoding/json"
	"fmt"
	"os"
	"time"
)

// jsonDuration accepts "90s"-style strings or integer nanoseconds.
type jsonDuration struct {
	time.Duration
}

func (d *jsonDuration) UnmarshalJSON(b []byte) error {
	var v any
	if err := json.Unmarshal(b, &v); err != nil {
		return err
	}
	switch value := v.(type) {
	case float64:
		d.Duration = time.Duration(value)
		return nil
	case string:
		parsed, err := time.ParseDuration(value)
		if err != nil {
			return err
		}
		d.Duration = parsed
		return nil
	default:
		return fmt.Errorf("invalid duration %s", string(b))
	}
}

// JsonConfig is the on-disk shape of the configuration file. Absent keys keep
// the values already in Config.
type JsonConfig struct {
	HTTPAddr                     *string       `json:"http_addr"`
	DatabaseDSN                  *string       `json:"database_dsn"`
	SecretKey                    *string       `json:"secret_key"`
	AccessTokenValidityDuration  *jsonDuration `json:"access_token_validity_duration"`
	RefreshTokenValidityDuration *jsonDuration `json:"refresh_token_validity_duration"`
	LastOffersLimit              *int          `json:"last_offers_limit"`
	LogLevel                     *string       `json:"log_level"`
	S3RootUser                   *string       `json:"s3_root_user"`
	S3RootPassword               *string       `json:"s3_root_password"`
	S3Bucket                     *string       `json:"s3_bucket"`
	S3Region                     *string       `json:"s3_region"`
	S3BaseEndpoint               *string       `json:"s3_base_endpoint"`
	PictureURLValidityDuration   *jsonDuration `json:"picture_url_validity_duration"`
}

// parseJson overlays the file named by -c/-config onto config. Without the
// flag nothing is loaded. An unreadable or invalid file panics.
func parseJson(config *Config) {
	path := jsonConfigPath()
	if path == "" {
		return
	}

	file, err := os.ReadFile(path)
	if err != nil {
		panic(err)
	}

	c := &JsonConfig{}
	if err := json.Unmarshal(file, c); err != nil {
		panic(err)
	}

	setString(&config.HTTPAddr, c.HTTPAddr)
	setString(&config.DatabaseDSN, c.DatabaseDSN)
	setString(&config.SecretKey, c.SecretKey)
	setDuration(&config.AccessTokenValidityDuration, c.AccessTokenValidityDuration)
	setDuration(&config.RefreshTokenValidityDuration, c.RefreshTokenValidityDuration)
	if c.LastOffersLimit != nil {
		config.LastOffersLimit = *c.LastOffersLimit
	}
	setString(&config.LogLevel, c.LogLevel)
	setString(&config.S3RootUser, c.S3RootUser)
	setString(&config.S3RootPassword, c.S3RootPassword)
	setString(&config.S3Bucket, c.S3Bucket)
	setString(&config.S3Region, c.S3Region)
	setString(&config.S3BaseEndpoint, c.S3BaseEndpoint)
	setDuration(&config.PictureURLValidityDuration, c.PictureURLValidityDuration)
}

func setString(dst *string, src *string) {
	if src != nil {
		*dst = *src
	}
}

func setDuration(dst *time.Duration, src *jsonDuration) {
	if src != nil {
		*dst = src.Duration
	}
}
