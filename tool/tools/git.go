// Copyright 2025 The Go A2A Authors
// SPDX-License-Identifier: Apache-2.0

package tools

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"net/url"
	"os"
	"os/exec"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"google.golang.org/genai"

	"github.com/go-a2a/mantis/tool"
	"github.com/go-a2a/mantis/types"
)

// GitConfig bounds repository analysis.
type GitConfig struct {
	// MaxRepoSizeMB rejects repositories larger than this after cloning.
	MaxRepoSizeMB float64

	// MaxFiles rejects repositories with more files than this.
	MaxFiles int

	// CloneTimeout bounds the shallow clone.
	CloneTimeout time.Duration

	// BlockedDomains rejects repository hosts matching any entry.
	BlockedDomains []string
}

// DefaultGitConfig returns the analysis limits used when none are given.
func DefaultGitConfig() *GitConfig {
	return &GitConfig{
		MaxRepoSizeMB:  100,
		MaxFiles:       1000,
		CloneTimeout:   300 * time.Second,
		BlockedDomains: []string{"localhost", "127.0.0.1", "0.0.0.0", "192.168.", "10.", "172."},
	}
}

// languageByExtension maps source file extensions to language names.
var languageByExtension = map[string]string{
	".go":   "Go",
	".py":   "Python",
	".js":   "JavaScript",
	".ts":   "TypeScript",
	".rs":   "Rust",
	".java": "Java",
	".c":    "C",
	".cpp":  "C++",
	".h":    "C/C++",
	".rb":   "Ruby",
	".sh":   "Shell",
	".md":   "Markdown",
}

// validateRepositoryURL accepts only https repositories on unblocked
// hosts.
func (c *GitConfig) validateRepositoryURL(repoURL string) bool {
	parsed, err := url.Parse(repoURL)
	if err != nil {
		return false
	}
	if parsed.Scheme != "https" || parsed.Host == "" || parsed.Path == "" {
		return false
	}
	hostname := strings.ToLower(parsed.Hostname())
	for _, blocked := range c.BlockedDomains {
		if strings.Contains(hostname, blocked) {
			return false
		}
	}
	return true
}

// repoName extracts the repository name from its URL.
func repoName(repoURL string) string {
	parsed, err := url.Parse(repoURL)
	if err != nil {
		return "unknown-repo"
	}
	path := strings.TrimSuffix(strings.Trim(parsed.Path, "/"), ".git")
	if path == "" {
		return "unknown-repo"
	}
	if i := strings.LastIndex(path, "/"); i >= 0 {
		return path[i+1:]
	}
	return path
}

// runGit runs one git command and returns its stdout.
func runGit(ctx context.Context, dir string, timeout time.Duration, args ...string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	cmd := exec.CommandContext(ctx, "git", args...)
	cmd.Dir = dir
	out, err := cmd.Output()
	if err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) && len(exitErr.Stderr) > 0 {
			return "", fmt.Errorf("git %s: %s", args[0], strings.TrimSpace(string(exitErr.Stderr)))
		}
		return "", fmt.Errorf("git %s: %w", args[0], err)
	}
	return string(out), nil
}

// surveyRepo walks a cloned repository counting files, bytes and
// languages. The .git directory is excluded.
func surveyRepo(dir string) (files int, bytes int64, languages []string, err error) {
	seen := make(map[string]bool)
	err = filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if d.Name() == ".git" {
				return filepath.SkipDir
			}
			return nil
		}
		files++
		if info, err := d.Info(); err == nil {
			bytes += info.Size()
		}
		if lang, ok := languageByExtension[strings.ToLower(filepath.Ext(path))]; ok && !seen[lang] {
			seen[lang] = true
			languages = append(languages, lang)
		}
		return nil
	})
	slices.Sort(languages)
	return files, bytes, languages, err
}

// GitAnalyzeTool returns the git_analyze_repository tool: shallow-clones a
// repository into a temporary directory and summarizes it. A nil config
// gets [DefaultGitConfig].
func GitAnalyzeTool(config *GitConfig) types.Tool {
	if config == nil {
		config = DefaultGitConfig()
	}

	return tool.New("git_analyze_repository",
		"Analyze a git repository: branch, latest commit, file count, size and languages.",
		&genai.Schema{
			Type: genai.TypeObject,
			Properties: map[string]*genai.Schema{
				"repo_url": {Type: genai.TypeString, Description: "HTTPS URL of the git repository"},
			},
			Required: []string{"repo_url"},
		},
		func(ctx context.Context, args map[string]any) (string, error) {
			repoURL := tool.ToString(args, "repo_url", "")

			if !config.validateRepositoryURL(repoURL) {
				return fmt.Sprintf("Error: Invalid or blocked repository URL: %s", repoURL), nil
			}
			name := repoName(repoURL)

			tempDir, err := os.MkdirTemp("", "mantis_git_"+name+"_")
			if err != nil {
				return fmt.Sprintf("Error analyzing repository %s: %v", repoURL, err), nil
			}
			defer os.RemoveAll(tempDir)

			if _, err := runGit(ctx, "", config.CloneTimeout, "clone", "--depth", "1", repoURL, tempDir); err != nil {
				return fmt.Sprintf("Error analyzing repository %s: %v", repoURL, err), nil
			}

			files, bytes, languages, err := surveyRepo(tempDir)
			if err != nil {
				return fmt.Sprintf("Error analyzing repository %s: %v", repoURL, err), nil
			}
			sizeMB := float64(bytes) / (1024 * 1024)
			if sizeMB > config.MaxRepoSizeMB {
				return fmt.Sprintf("Error: Repository too large: %.1fMB (max: %.0fMB)", sizeMB, config.MaxRepoSizeMB), nil
			}
			if files > config.MaxFiles {
				return fmt.Sprintf("Error: Too many files: %d (max: %d)", files, config.MaxFiles), nil
			}

			branch := "main"
			if out, err := runGit(ctx, tempDir, 30*time.Second, "branch", "--show-current"); err == nil {
				if b := strings.TrimSpace(out); b != "" {
					branch = b
				}
			}

			commitHash, commitMessage := "", ""
			if out, err := runGit(ctx, tempDir, 30*time.Second, "log", "-1", "--format=%H|%s"); err == nil {
				hash, message, _ := strings.Cut(strings.TrimSpace(out), "|")
				commitHash, commitMessage = hash, message
			}

			var sb strings.Builder
			fmt.Fprintf(&sb, "Repository Analysis: %s\n", name)
			fmt.Fprintf(&sb, "URL: %s\n", repoURL)
			fmt.Fprintf(&sb, "Branch: %s\n", branch)
			if commitHash != "" {
				fmt.Fprintf(&sb, "Latest commit: %s - %s\n", commitHash, commitMessage)
			}
			fmt.Fprintf(&sb, "Files: %d\n", files)
			fmt.Fprintf(&sb, "Size: %.1fMB\n", sizeMB)
			if len(languages) > 0 {
				fmt.Fprintf(&sb, "Languages: %s\n", strings.Join(languages, ", "))
			}
			return sb.String(), nil
		},
	)
}
