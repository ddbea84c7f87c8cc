package main

import (
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"
)

// fetcher reads input documents from URLs, local files or stdin ("-")
type fetcher struct {
	httpClient *http.Client
	stdin      io.Reader
}

func newFetcher() *fetcher {
	return &fetcher{
		httpClient: &http.Client{Timeout: 30 * time.Second},
		stdin:      os.Stdin,
	}
}

func (f *fetcher) fetch(urlOrPath string) ([]byte, error) {
	if urlOrPath == "" {
		return nil, fmt.Errorf("no input given")
	}
	if urlOrPath == "-" {
		return io.ReadAll(f.stdin)
	}

	if !strings.HasPrefix(urlOrPath, "http://") && !strings.HasPrefix(urlOrPath, "https://") {
		return os.ReadFile(urlOrPath)
	}

	resp, err := f.httpClient.Get(urlOrPath)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch %s: %w", urlOrPath, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("HTTP %d from %s", resp.StatusCode, urlOrPath)
	}

	return io.ReadAll(resp.Body)
}

// fetchPair reads the network and the request documents
func (f *fetcher) fetchPair(networkPath, requestPath string) ([]byte, []byte, error) {
	if networkPath == "-" && requestPath == "-" {
		return nil, nil, fmt.Errorf("only one input can be read from stdin")
	}
	netData, err := f.fetch(networkPath)
	if err != nil {
		return nil, nil, fmt.Errorf("network: %w", err)
	}
	reqData, err := f.fetch(requestPath)
	if err != nil {
		return nil, nil, fmt.Errorf("request: %w", err)
	}
	return netData, reqData, nil
}

func writeOutput(path string, data []byte) error {
	if path == "" || path == "-" {
		_, err := os.Stdout.Write(data)
		return err
	}
	return os.WriteFile(path, data, 0644)
}
