package tuning

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"os"

	"github.com/santhosh-tekuri/jsonschema/v5"
	"gopkg.in/yaml.v3"
)

//go:embed schema.json
var schemaJSON string

type Tuning struct {
	ChunkSize int   `yaml:"chunk_size"`
	Seed      int64 `yaml:"seed"`

	Workers      int `yaml:"workers"`
	MaxChunks    int `yaml:"max_chunks"`
	CreateRadius int `yaml:"create_radius"`
	RenderRadius int `yaml:"render_radius"`
	DeleteRadius int `yaml:"delete_radius"`
	SignRadius   int `yaml:"sign_radius"`

	ShowLights bool `yaml:"show_lights"`
	ShowPlants bool `yaml:"show_plants"`
	ShowTrees  bool `yaml:"show_trees"`
	ShowClouds bool `yaml:"show_clouds"`

	FrameRateHz    int     `yaml:"frame_rate_hz"`
	PositionRateHz float64 `yaml:"position_rate_hz"`
	FOV            float32 `yaml:"fov"`
	Width          int     `yaml:"width"`
	Height         int     `yaml:"height"`

	DBPath     string `yaml:"db_path"`
	ServerAddr string `yaml:"server_addr"`
	JournalDir string `yaml:"journal_dir"`
}

func Defaults() Tuning {
	return Tuning{
		ChunkSize:      32,
		Workers:        4,
		MaxChunks:      8192,
		CreateRadius:   10,
		RenderRadius:   10,
		DeleteRadius:   14,
		SignRadius:     4,
		ShowLights:     true,
		ShowPlants:     true,
		ShowTrees:      true,
		ShowClouds:     true,
		FrameRateHz:    60,
		PositionRateHz: 10,
		FOV:            65,
		Width:          1024,
		Height:         768,
		DBPath:         "craft.db",
	}
}

// Load reads a YAML file over Defaults and validates the result. Keys
// missing from the file keep their default values.
func Load(path string) (Tuning, error) {
	t := Defaults()
	raw, err := os.ReadFile(path)
	if err != nil {
		return t, err
	}
	if err := yaml.Unmarshal(raw, &t); err != nil {
		return t, fmt.Errorf("tuning.yaml: %w", err)
	}
	if err := checkSchema(raw); err != nil {
		return t, fmt.Errorf("tuning.yaml: %w", err)
	}
	if err := t.Validate(); err != nil {
		return t, fmt.Errorf("tuning.yaml: %w", err)
	}
	return t, nil
}

var schema = jsonschema.MustCompileString("tuning.schema.json", schemaJSON)

// checkSchema validates the raw document. It goes through JSON so the
// validator sees JSON types rather than YAML's.
func checkSchema(raw []byte) error {
	var doc any
	if err := yaml.Unmarshal(raw, &doc); err != nil {
		return err
	}
	if doc == nil {
		return nil
	}
	b, err := json.Marshal(doc)
	if err != nil {
		return err
	}
	var v any
	if err := json.Unmarshal(b, &v); err != nil {
		return err
	}
	if err := schema.Validate(v); err != nil {
		return fmt.Errorf("schema: %w", err)
	}
	return nil
}

// Validate checks constraints between fields.
func (t Tuning) Validate() error {
	if t.ChunkSize != 32 {
		return fmt.Errorf("chunk_size must be 32, got %d", t.ChunkSize)
	}
	if t.Workers < 1 {
		return fmt.Errorf("workers must be >= 1, got %d", t.Workers)
	}
	if t.CreateRadius < 1 || t.RenderRadius < 1 {
		return fmt.Errorf("create_radius and render_radius must be >= 1")
	}
	if t.DeleteRadius <= t.CreateRadius {
		return fmt.Errorf("delete_radius (%d) must exceed create_radius (%d)", t.DeleteRadius, t.CreateRadius)
	}
	if t.MaxChunks < 9 {
		return fmt.Errorf("max_chunks must cover the 3x3 around the player, got %d", t.MaxChunks)
	}
	if t.PositionRateHz <= 0 {
		return fmt.Errorf("position_rate_hz must be > 0")
	}
	return nil
}
