package artifacts

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/hashicorp/go-hclog"

	"github.com/scan-io-git/flaw-importer/pkg/shared"
	"github.com/scan-io-git/flaw-importer/pkg/shared/files"
)

// GetArtifactName returns the default report file name.
// Example: import_github_2025-09-15T08:28:46Z.flaw-importer.json.
func GetArtifactName(command, tracker string, t time.Time) string {
	ts := t.UTC().Format(time.RFC3339)
	return fmt.Sprintf("%s_%s_%s.flaw-importer.json", command, tracker, ts)
}

// SaveArtifactJSON writes result to outputPath. A folder path gets a
// generated file name. Returns the full path written.
func SaveArtifactJSON(logger hclog.Logger, outputPath, command, tracker string, result shared.GenericLaunchesResult) (string, error) {
	path, folder, err := files.DetermineFileFullPath(outputPath, GetArtifactName(command, tracker, time.Now()))
	if err != nil {
		return "", err
	}
	if err := files.CreateFolderIfNotExists(folder); err != nil {
		return path, err
	}

	resultData, err := json.MarshalIndent(result, "", "    ")
	if err != nil {
		return path, fmt.Errorf("error marshaling the result data: %w", err)
	}
	if err := files.WriteJsonFile(path, resultData); err != nil {
		return path, fmt.Errorf("error writing result to file: %w", err)
	}
	logger.Info("report saved to file", "path", path)
	return path, nil
}

// NewResult wraps a single launch outcome.
func NewResult(args, result interface{}, err error) shared.GenericLaunchesResult {
	launch := shared.GenericResult{Args: args, Result: result, Status: "OK"}
	if err != nil {
		launch.Status = "FAILED"
		launch.Message = err.Error()
	}
	return shared.GenericLaunchesResult{Launches: []shared.GenericResult{launch}}
}
