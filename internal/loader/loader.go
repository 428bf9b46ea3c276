package loader

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"strings"
	"time"

	"inbox-triage/internal/logger"
	"inbox-triage/internal/model"
)

// ModelLoader fetches the precomputed dashboard model
type ModelLoader interface {
	LoadDashboardModel(ctx context.Context) (*model.DashboardModel, error)
}

// LoadError reports a non-success transport status while fetching the model.
type LoadError struct {
	URL        string
	StatusCode int
	Status     string
}

func (e *LoadError) Error() string {
	return fmt.Sprintf("failed to load JSON: %d %s", e.StatusCode, e.Status)
}

// NewLoader picks an HTTP loader for http(s) sources and a file loader otherwise.
func NewLoader(source string, logger *logger.Logger) ModelLoader {
	if strings.HasPrefix(source, "http://") || strings.HasPrefix(source, "https://") {
		return NewHTTPLoader(source, &http.Client{Timeout: 15 * time.Second}, logger)
	}
	return NewFileLoader(source, logger)
}

type HTTPLoader struct {
	url    string
	client *http.Client
	logger *logger.Logger
}

func NewHTTPLoader(url string, client *http.Client, logger *logger.Logger) *HTTPLoader {
	if client == nil {
		client = http.DefaultClient
	}
	return &HTTPLoader{url: url, client: client, logger: logger}
}

func (l *HTTPLoader) LoadDashboardModel(ctx context.Context) (*model.DashboardModel, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, l.url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Cache-Control", "no-store")
	req.Header.Set("Accept", "application/json")

	resp, err := l.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch dashboard model: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &LoadError{
			URL:        l.url,
			StatusCode: resp.StatusCode,
			Status:     http.StatusText(resp.StatusCode),
		}
	}

	var m model.DashboardModel
	if err := json.NewDecoder(resp.Body).Decode(&m); err != nil {
		return nil, fmt.Errorf("failed to decode dashboard model: %w", err)
	}

	l.logger.Info("Loaded dashboard model from", l.url, "blocks:", len(m.Blocks))
	return &m, nil
}

type FileLoader struct {
	path   string
	logger *logger.Logger
}

func NewFileLoader(path string, logger *logger.Logger) *FileLoader {
	return &FileLoader{path: path, logger: logger}
}

func (l *FileLoader) LoadDashboardModel(ctx context.Context) (*model.DashboardModel, error) {
	data, err := os.ReadFile(l.path)
	if err != nil {
		return nil, fmt.Errorf("failed to read dashboard model: %w", err)
	}

	var m model.DashboardModel
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("failed to parse dashboard model: %w", err)
	}

	l.logger.Info("Loaded dashboard model from", l.path, "blocks:", len(m.Blocks))
	return &m, nil
}
