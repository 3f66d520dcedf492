package feed

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path"
	"regexp"
	"time"

	"github.com/pkg/sftp"
	"go.uber.org/zap"
	"golang.org/x/crypto/ssh"
)

// ErrNoMatchingFile means the remote directory holds no file for the
// requested pattern.
var ErrNoMatchingFile = errors.New("feed: no matching file on remote")

// Config holds the SFTP connection settings for a feed provider.
type Config struct {
	Host      string
	Port      int
	Username  string
	Password  string
	RemoteDir string
}

// Client downloads catalog feed files over SFTP. A fresh connection is
// opened per fetch; feeds are pulled a handful of times a day, so
// holding a session open buys nothing.
type Client struct {
	cfg    Config
	logger *zap.Logger
}

// NewClient creates a feed client.
func NewClient(cfg Config, logger *zap.Logger) *Client {
	if cfg.Port == 0 {
		cfg.Port = 22
	}
	return &Client{cfg: cfg, logger: logger.Named("feed")}
}

// ProductFilePattern matches product feed drops for a brand, e.g.
// ACME_HAWK_BigCommerce_20260815_20260815.txt. The first date group is
// the drop date used to pick the newest file.
func ProductFilePattern(providerName, brandCode string) *regexp.Regexp {
	return regexp.MustCompile(fmt.Sprintf(`^%s_%s_BigCommerce_(\d{8})_\d{8}\.txt$`,
		regexp.QuoteMeta(providerName), regexp.QuoteMeta(brandCode)))
}

// FitmentFilePattern matches vehicle fitment drops for a brand.
func FitmentFilePattern(providerName, brandCode string) *regexp.Regexp {
	return regexp.MustCompile(fmt.Sprintf(`^%s_%s_BigCommerceFitment_(\d{8})_\d{8}\.txt$`,
		regexp.QuoteMeta(providerName), regexp.QuoteMeta(brandCode)))
}

// PickLatest returns the name matching the pattern with the highest
// drop date, or empty when nothing matches. The date group is a fixed
// width YYYYMMDD so a string compare orders correctly.
func PickLatest(names []string, pattern *regexp.Regexp) string {
	latest := ""
	latestDate := ""
	for _, name := range names {
		m := pattern.FindStringSubmatch(name)
		if m == nil {
			continue
		}
		if m[1] > latestDate {
			latestDate = m[1]
			latest = name
		}
	}
	return latest
}

// FetchLatest downloads the newest remote file matching the pattern
// and returns its name and contents.
func (c *Client) FetchLatest(ctx context.Context, pattern *regexp.Regexp) (string, []byte, error) {
	sshClient, sftpClient, err := c.connect(ctx)
	if err != nil {
		return "", nil, err
	}
	defer func() {
		_ = sftpClient.Close()
		_ = sshClient.Close()
	}()

	entries, err := sftpClient.ReadDir(c.cfg.RemoteDir)
	if err != nil {
		return "", nil, fmt.Errorf("feed: list %s: %w", c.cfg.RemoteDir, err)
	}
	names := make([]string, 0, len(entries))
	for _, entry := range entries {
		if !entry.IsDir() {
			names = append(names, entry.Name())
		}
	}

	name := PickLatest(names, pattern)
	if name == "" {
		return "", nil, ErrNoMatchingFile
	}

	c.logger.Info("downloading feed file",
		zap.String("file", name),
		zap.String("dir", c.cfg.RemoteDir),
	)

	f, err := sftpClient.Open(path.Join(c.cfg.RemoteDir, name))
	if err != nil {
		return "", nil, fmt.Errorf("feed: open %s: %w", name, err)
	}
	defer func() {
		_ = f.Close()
	}()

	data, err := io.ReadAll(f)
	if err != nil {
		return "", nil, fmt.Errorf("feed: read %s: %w", name, err)
	}
	return name, data, nil
}

func (c *Client) connect(ctx context.Context) (*ssh.Client, *sftp.Client, error) {
	sshConfig := &ssh.ClientConfig{
		User: c.cfg.Username,
		Auth: []ssh.AuthMethod{ssh.Password(c.cfg.Password)},
		// Feed hosts rotate behind load balancers and do not publish
		// stable host keys.
		HostKeyCallback: ssh.InsecureIgnoreHostKey(),
		Timeout:         30 * time.Second,
	}

	addr := fmt.Sprintf("%s:%d", c.cfg.Host, c.cfg.Port)

	type dialResult struct {
		client *ssh.Client
		err    error
	}
	done := make(chan dialResult, 1)
	go func() {
		client, err := ssh.Dial("tcp", addr, sshConfig)
		done <- dialResult{client, err}
	}()

	select {
	case <-ctx.Done():
		return nil, nil, ctx.Err()
	case res := <-done:
		if res.err != nil {
			return nil, nil, fmt.Errorf("feed: dial %s: %w", addr, res.err)
		}
		sftpClient, err := sftp.NewClient(res.client)
		if err != nil {
			_ = res.client.Close()
			return nil, nil, fmt.Errorf("feed: open sftp session: %w", err)
		}
		return res.client, sftpClient, nil
	}
}
