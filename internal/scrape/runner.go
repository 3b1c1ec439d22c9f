package scrape

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
)

const (
	searchTimeout = 20 * time.Second
	fetchTimeout  = 60 * time.Second

	// file the tool writes next to itself after a fetch run
	toolCSVName = "gpu_selected_details.csv"
)

var (
	// "[3] GeForce RTX 4090 → https://www.techpowerup.com/gpu-specs/geforce-rtx-4090.c3889"
	resultLineRe = regexp.MustCompile(`\[(\d+)\] (\S.*?) → (https?://www\.techpowerup\.com/gpu-specs/[^\s"]+)`)

	detailURLRe = regexp.MustCompile(`https?://www\.techpowerup\.com/gpu-specs/[^\s"]+`)

	// "[2/5] GeForce RTX 4090：..." progress marker emitted while fetching
	progressNameRe = regexp.MustCompile(`\[\d+/\d+\] ([^：]+)：`)
)

type SearchResult struct {
	Index int    `json:"index"`
	Name  string `json:"name"`
	URL   string `json:"url"`
}

type Link struct {
	Name string `json:"name"`
	URL  string `json:"url"`
}

type SearchOutput struct {
	Results []SearchResult `json:"results"`
	Stdout  string         `json:"stdout"`
	Stderr  string         `json:"stderr"`
}

type FetchOutput struct {
	Links  []Link `json:"links"`
	CSVURL string `json:"csv_url,omitempty"`
	Stdout string `json:"stdout"`
	Stderr string `json:"stderr"`
}

// Runner drives the external search/scrape tool as a child process and turns
// its line-oriented stdout into structured results.
type Runner struct {
	Python    string
	Script    string
	PublicDir string
}

func NewRunner(python, script, publicDir string) *Runner {
	return &Runner{Python: python, Script: script, PublicDir: publicDir}
}

// Search lists matching GPUs without fetching any pages. The process is
// killed after 20 seconds.
func (r *Runner) Search(ctx context.Context, keyword string) (*SearchOutput, error) {
	stdout, stderr, err := r.run(ctx, searchTimeout, keyword, "--list-only")
	if err != nil {
		return nil, err
	}
	out := &SearchOutput{
		Results: parseSearchOutput(stdout),
		Stdout:  stdout,
		Stderr:  stderr,
	}
	return out, nil
}

// FetchSelected scrapes the chosen result indices (60-second budget). If the
// tool left its CSV beside the script, the file is published into PublicDir
// under a unique name and its download path returned.
func (r *Runner) FetchSelected(ctx context.Context, keyword string, indices []int) (*FetchOutput, error) {
	parts := make([]string, len(indices))
	for i, n := range indices {
		parts[i] = strconv.Itoa(n)
	}
	selectArg := "--select=" + strings.Join(parts, ",")

	stdout, stderr, err := r.run(ctx, fetchTimeout, keyword, selectArg)
	if err != nil {
		return nil, err
	}

	out := &FetchOutput{
		Links:  parseFetchLinks(stdout),
		Stdout: stdout,
		Stderr: stderr,
	}

	src := filepath.Join(filepath.Dir(r.Script), toolCSVName)
	if _, statErr := os.Stat(src); statErr == nil {
		name := fmt.Sprintf("gpu_selected_details_%s.csv", uuid.NewString())
		if copyErr := copyFile(src, filepath.Join(r.PublicDir, name)); copyErr == nil {
			out.CSVURL = "/files/" + name
		}
	}
	return out, nil
}

func (r *Runner) run(ctx context.Context, timeout time.Duration, args ...string) (string, string, error) {
	tctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	cmd := exec.CommandContext(tctx, r.Python, append([]string{r.Script}, args...)...)
	cmd.Dir = filepath.Dir(r.Script)

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()
	if errors.Is(tctx.Err(), context.DeadlineExceeded) {
		return stdout.String(), stderr.String(), fmt.Errorf("search tool timed out after %s", timeout)
	}
	if err != nil {
		msg := strings.TrimSpace(stderr.String())
		if msg == "" {
			msg = err.Error()
		}
		return stdout.String(), stderr.String(), fmt.Errorf("search tool failed: %s", msg)
	}
	return stdout.String(), stderr.String(), nil
}

func parseSearchOutput(stdout string) []SearchResult {
	var results []SearchResult
	for _, m := range resultLineRe.FindAllStringSubmatch(stdout, -1) {
		idx, err := strconv.Atoi(m[1])
		if err != nil {
			continue
		}
		results = append(results, SearchResult{Index: idx, Name: m[2], URL: m[3]})
	}
	return results
}

// parseFetchLinks keeps lines that carry both a progress marker and a detail
// URL.
func parseFetchLinks(stdout string) []Link {
	var links []Link
	for _, line := range strings.Split(stdout, "\n") {
		url := detailURLRe.FindString(line)
		name := progressNameRe.FindStringSubmatch(line)
		if url != "" && name != nil {
			links = append(links, Link{Name: strings.TrimSpace(name[1]), URL: url})
		}
	}
	return links
}

func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.Create(dst)
	if err != nil {
		return err
	}
	defer out.Close()

	if _, err := io.Copy(out, in); err != nil {
		return err
	}
	return out.Close()
}
