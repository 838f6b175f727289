package strategyconfig

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Load reads YAML file and returns Config with raw bytes
// SSOT 핵심: KnownFields(true)로 오타/미사용 필드 즉시 실패
func Load(path string) (*Config, []byte, error) {
	return LoadOnto(path, Default())
}

// LoadOnto is Load with base supplying the values of omitted keys
func LoadOnto(path string, base *Config) (*Config, []byte, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, nil, err
	}

	cfg, err := ParseOnto(data, base)
	if err != nil {
		return nil, data, err
	}

	return cfg, data, nil
}

// Parse decodes and validates YAML bytes
func Parse(data []byte) (*Config, error) {
	return ParseOnto(data, Default())
}

// ParseOnto decodes YAML on top of a copy of base and validates the result
func ParseOnto(data []byte, base *Config) (*Config, error) {
	cp := *base
	cfg := &cp
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true) // 알 수 없는 필드 발견 시 에러 반환
	if err := dec.Decode(cfg); err != nil {
		return nil, err
	}

	if err := Validate(cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Default returns the reference configuration.
// YAML values are decoded on top of it, so omitted keys keep these values.
func Default() *Config {
	return &Config{
		Meta: Meta{StrategyID: "ls_rank_reversal", Version: "1"},
		Signals: Signals{
			RankThreshold: 38,
		},
		Performance: Performance{
			DailyRiskFreeRate:   0,
			AnnualizationFactor: 2386,
		},
	}
}

// Hash generates SHA256 hash from Config (canonical JSON)
// 주의: map 대신 struct 사용으로 해시 재현성 보장
func Hash(cfg *Config) (string, error) {
	jsonBytes, err := json.Marshal(cfg)
	if err != nil {
		return "", err
	}

	sum := sha256.Sum256(jsonBytes)
	return hex.EncodeToString(sum[:]), nil
}

// NewDecisionSnapshot creates a snapshot for the run record
func NewDecisionSnapshot(cfg *Config, yamlData []byte) (*DecisionSnapshot, error) {
	hash, err := Hash(cfg)
	if err != nil {
		return nil, err
	}

	return &DecisionSnapshot{
		ConfigHash: hash,
		ConfigYAML: string(yamlData),
		StrategyID: cfg.Meta.StrategyID,
		CreatedAt:  time.Now(),
	}, nil
}
