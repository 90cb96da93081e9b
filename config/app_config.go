package config

import (
	"strings"

	"github.com/mitchellh/mapstructure"
	"github.com/pkg/errors"
	"go.uber.org/zap/zapcore"

	"github.com/Luismorlan/utxo_signer/utils"
)

// This is the global app config for the signer.
type AppConfig struct {
	// Name of the signature scheme, "ed25519" or "schnorr".
	Scheme string `mapstructure:"scheme"`
	// Secret URI the signing key is derived from, e.g. "//Alice".
	KeyURI string `mapstructure:"key_uri"`
	// Minimal level of emitted logs.
	LogLevel string `mapstructure:"log_level"`
	// The transaction to build and sign.
	Transaction TransactionTemplate `mapstructure:"transaction"`
}

type TransactionTemplate struct {
	Inputs  []InputTemplate  `mapstructure:"inputs"`
	Outputs []OutputTemplate `mapstructure:"outputs"`
}

type InputTemplate struct {
	// Hex of the UTXO to spend.
	Outpoint string `mapstructure:"outpoint"`
	// Hex of the sigscript, empty for an unsigned template.
	SigScript string `mapstructure:"sigscript"`
}

type OutputTemplate struct {
	// Base 10 amount. Quote values that do not fit 64 bits.
	Value string `mapstructure:"value"`
	// Hex of the receiver's public key.
	PublicKey string `mapstructure:"pubkey"`
}

// DefaultConfig spends the development UTXO of Alice, paying 50 to Bob and 50 back to Alice.
func DefaultConfig() AppConfig {
	return AppConfig{
		Scheme:   utils.Ed25519.Name(),
		KeyURI:   "//Alice",
		LogLevel: "info",
		Transaction: TransactionTemplate{
			Inputs: []InputTemplate{
				{
					Outpoint:  "0xc670c5f69081da78af400552edcafa3f0f31e84db1b50dd70776e0f87477b3dc",
					SigScript: "0x" + strings.Repeat("00", 64),
				},
			},
			Outputs: []OutputTemplate{
				{
					Value:     "50",
					PublicKey: "0x8eaf04151687736326c9fea17e25fc5287613693c912909cb226aa4794f26a48",
				},
				{
					Value:     "50",
					PublicKey: "0xd43593c715fdd31c61141abd04a99fd6822c8558854ccde39a5684e7a56da27d",
				},
			},
		},
	}
}

// LoadConfig reads the YAML file at fPath on top of DefaultConfig.
func LoadConfig(fPath string) (AppConfig, error) {
	doc, err := utils.ReadYAMLFile(fPath)
	if err != nil {
		return AppConfig{}, err
	}
	return DecodeConfig(doc)
}

// DecodeConfig maps a generic document on top of DefaultConfig. Sequences
// present in the document replace the default ones entirely.
func DecodeConfig(doc map[string]interface{}) (AppConfig, error) {
	c := DefaultConfig()
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           &c,
		WeaklyTypedInput: true,
		ZeroFields:       true,
		ErrorUnused:      true,
	})
	if err != nil {
		return AppConfig{}, errors.WithStack(err)
	}
	if err := decoder.Decode(doc); err != nil {
		return AppConfig{}, errors.Wrap(err, "invalid config")
	}
	if err := c.Validate(); err != nil {
		return AppConfig{}, err
	}
	return c, nil
}

func (c AppConfig) Validate() error {
	if _, err := c.SignatureScheme(); err != nil {
		return err
	}
	if _, err := c.Level(); err != nil {
		return err
	}
	return nil
}

func (c AppConfig) SignatureScheme() (utils.Scheme, error) {
	return utils.SchemeByName(c.Scheme)
}

func (c AppConfig) Level() (zapcore.Level, error) {
	var level zapcore.Level
	if err := level.UnmarshalText([]byte(c.LogLevel)); err != nil {
		return level, errors.Wrapf(err, "invalid log level %q", c.LogLevel)
	}
	return level, nil
}
