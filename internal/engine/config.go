package engine

import (
	"encoding/json"
	"os"
	"time"

	"github.com/pkg/errors"

	"andantino/internal/andantino"
)

// Config 引擎参数；时间用毫秒整数，方便写 JSON
type Config struct {
	MaxDepth     int       `json:"max_depth"`     // 迭代加深的最大层数
	GameTimeMs   int64     `json:"game_time_ms"`  // 整局总用时
	MaxMoves     int       `json:"max_moves"`     // 一方最多下多少手
	SafetyFactor float64   `json:"safety_factor"` // 单步预算再打个折
	Workers      int       `json:"workers"`       // 包围判定的 worker 数
	Heuristic    Heuristic `json:"heuristic"`     // 默认估值函数
	Reward       float64   `json:"reward"`        // 决胜局面的分数
	MaxStones    int       `json:"max_stones"`    // 双方合计子数上限，到了判和
	ImmediateWin bool      `json:"immediate_win"` // 根节点先找一步胜
}

func DefaultConfig() Config {
	return Config{
		MaxDepth:     4,
		GameTimeMs:   (10 * time.Minute).Milliseconds(),
		MaxMoves:     25,
		SafetyFactor: 0.75,
		Workers:      4,
		Heuristic:    HexHeuristic,
		Reward:       1e7,
		MaxStones:    andantino.MaxStones,
		ImmediateWin: true,
	}
}

// MoveBudget 单步时间 = 总时间 / 最大手数 * 安全系数；默认 18s
func (c Config) MoveBudget() time.Duration {
	if c.MaxMoves <= 0 || c.GameTimeMs <= 0 {
		return 0
	}
	per := float64(c.GameTimeMs) / float64(c.MaxMoves) * c.SafetyFactor
	return time.Duration(per * float64(time.Millisecond))
}

// LoadConfig 在默认值上覆盖 JSON 文件里给出的字段
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()
	if path == "" {
		return cfg, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, errors.Wrapf(err, "read config %s", path)
	}
	if err := json.Unmarshal(data, &cfg); err != nil {
		return cfg, errors.Wrapf(err, "parse config %s", path)
	}
	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// Validate 基本范围检查
func (c Config) Validate() error {
	if c.MaxDepth < 1 {
		return errors.Errorf("max_depth must be >= 1, got %d", c.MaxDepth)
	}
	if c.SafetyFactor <= 0 || c.SafetyFactor > 1 {
		return errors.Errorf("safety_factor must be in (0,1], got %v", c.SafetyFactor)
	}
	if !c.Heuristic.Valid() {
		return &UnknownHeuristicError{Name: c.Heuristic.String()}
	}
	if c.Reward <= 0 {
		return errors.Errorf("reward must be positive, got %v", c.Reward)
	}
	return nil
}
