package artifacts

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/kjstillabower/aqi-dashboard/internal/features"
	"github.com/kjstillabower/aqi-dashboard/internal/inference"
)

// File names inside the artifact directory.
const (
	ModelFile           = "best_model.json"
	ScalerFile          = "scaler.json"
	CityEncoderFile     = "labelencoder_city.json"
	LocationEncoderFile = "labelencoder_location.json"
)

// ErrArtifact is wrapped by every load failure.
var ErrArtifact = errors.New("artifact load failed")

// LoadError reports which artifact could not be loaded.
type LoadError struct {
	Artifact string
	Path     string
	Err      error
}

func (e *LoadError) Error() string {
	return fmt.Sprintf("load %s artifact %s: %v", e.Artifact, e.Path, e.Err)
}

// Unwrap lets errors.Is match both ErrArtifact and the underlying cause.
func (e *LoadError) Unwrap() []error {
	return []error{ErrArtifact, e.Err}
}

// Bundle is the process-wide, read-only set of fitted artifacts. It is built
// once at startup and never mutated, so it can be shared by concurrent requests.
type Bundle struct {
	Predictor       *inference.Predictor
	Builder         *features.Builder
	CityEncoder     *features.LabelEncoder
	LocationEncoder *features.LabelEncoder
	ModelType       string
}

type modelFile struct {
	Type         string               `json:"type"`
	FeatureNames []string             `json:"feature_names"`
	BaseScore    float64              `json:"base_score"`
	Trees        []inference.TreeNode `json:"trees"`
	Intercept    float64              `json:"intercept"`
	Coefficients []float64            `json:"coefficients"`
}

type scalerFile struct {
	FeatureNames []string  `json:"feature_names"`
	Mean         []float64 `json:"mean"`
	Scale        []float64 `json:"scale"`
}

type encoderFile struct {
	Classes []string `json:"classes"`
}

// Load reads the four artifacts from dir and checks them against the feature schema.
func Load(dir string) (*Bundle, error) {
	cityPath := filepath.Join(dir, CityEncoderFile)
	city, err := loadEncoder("city", cityPath)
	if err != nil {
		return nil, &LoadError{Artifact: "city encoder", Path: cityPath, Err: err}
	}
	locationPath := filepath.Join(dir, LocationEncoderFile)
	location, err := loadEncoder("location", locationPath)
	if err != nil {
		return nil, &LoadError{Artifact: "location encoder", Path: locationPath, Err: err}
	}

	scalerPath := filepath.Join(dir, ScalerFile)
	scaler, err := loadScaler(scalerPath)
	if err != nil {
		return nil, &LoadError{Artifact: "scaler", Path: scalerPath, Err: err}
	}

	modelPath := filepath.Join(dir, ModelFile)
	model, modelType, err := loadModel(modelPath)
	if err != nil {
		return nil, &LoadError{Artifact: "model", Path: modelPath, Err: err}
	}

	predictor, err := inference.NewPredictor(scaler, model)
	if err != nil {
		return nil, &LoadError{Artifact: "model", Path: modelPath, Err: err}
	}
	if predictor.Width() != features.Width {
		return nil, &LoadError{
			Artifact: "scaler",
			Path:     scalerPath,
			Err:      fmt.Errorf("width %d, schema has %d: %w", predictor.Width(), features.Width, inference.ErrFeatureSchemaMismatch),
		}
	}

	return &Bundle{
		Predictor:       predictor,
		Builder:         features.NewBuilder(city, location),
		CityEncoder:     city,
		LocationEncoder: location,
		ModelType:       modelType,
	}, nil
}

func readJSON(path string, v interface{}) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("parse: %w", err)
	}
	return nil
}

func loadEncoder(name, path string) (*features.LabelEncoder, error) {
	var f encoderFile
	if err := readJSON(path, &f); err != nil {
		return nil, err
	}
	return features.NewLabelEncoder(name, f.Classes)
}

func loadScaler(path string) (*inference.StandardScaler, error) {
	var f scalerFile
	if err := readJSON(path, &f); err != nil {
		return nil, err
	}
	if err := checkFeatureNames(f.FeatureNames); err != nil {
		return nil, err
	}
	return inference.NewStandardScaler(f.Mean, f.Scale)
}

func loadModel(path string) (inference.Regressor, string, error) {
	var f modelFile
	if err := readJSON(path, &f); err != nil {
		return nil, "", err
	}
	if err := checkFeatureNames(f.FeatureNames); err != nil {
		return nil, "", err
	}
	switch f.Type {
	case "xgboost":
		m, err := inference.NewTreeEnsemble(f.BaseScore, f.Trees, features.Names)
		return m, f.Type, err
	case "linear":
		m, err := inference.NewLinearModel(f.Intercept, f.Coefficients)
		return m, f.Type, err
	default:
		return nil, "", fmt.Errorf("unsupported model type %q", f.Type)
	}
}

// checkFeatureNames verifies a recorded fit-time column list, when present,
// matches the schema name for name.
func checkFeatureNames(names []string) error {
	if len(names) == 0 {
		return nil
	}
	if len(names) != features.Width {
		return fmt.Errorf("fitted on %d features, schema has %d: %w", len(names), features.Width, inference.ErrFeatureSchemaMismatch)
	}
	for i, n := range names {
		if n != features.Names[i] {
			return fmt.Errorf("column %d is %q, schema expects %q: %w", i, n, features.Names[i], inference.ErrFeatureSchemaMismatch)
		}
	}
	return nil
}

// ResolveDir returns dir unchanged when absolute, otherwise joined to the
// directory holding the running executable.
func ResolveDir(dir string) (string, error) {
	if filepath.IsAbs(dir) {
		return dir, nil
	}
	exe, err := os.Executable()
	if err != nil {
		return "", fmt.Errorf("locate executable: %w", err)
	}
	exe, err = filepath.EvalSymlinks(exe)
	if err != nil {
		return "", fmt.Errorf("resolve executable: %w", err)
	}
	return filepath.Join(filepath.Dir(exe), dir), nil
}
