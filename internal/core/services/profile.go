package services

import (
	"fmt"
	"os"
	"strings"

	"github.com/YunusEmre3757/career-assistant-agent-20220808026/internal/config"
	"github.com/YunusEmre3757/career-assistant-agent-20220808026/internal/core/domain"
)

// LoadProfile reads the grounding documents from disk once at startup.
// Both documents are plain text; extraction from richer formats happens
// upstream of this process.
func LoadProfile(cfg config.ProfileConfig) (domain.Profile, error) {
	summary, err := readTextFile(cfg.SummaryPath)
	if err != nil {
		return domain.Profile{}, fmt.Errorf("load profile summary: %w", err)
	}

	narrative, err := readTextFile(cfg.NarrativePath)
	if err != nil {
		return domain.Profile{}, fmt.Errorf("load profile narrative: %w", err)
	}

	return domain.Profile{
		Name:                cfg.Name,
		Summary:             summary,
		Narrative:           narrative,
		AllowedTechnologies: domain.DefaultAllowedTechnologies(),
	}, nil
}

func readTextFile(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(string(data)), nil
}
