// Package report renders a Markdown summary of one run's sync results,
// grouped by the service owner named in a directory of CSV files. The only
// join performed is repository -> owner.
package report

import (
	"crypto/md5"
	"encoding/csv"
	"encoding/hex"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/valyala/bytebufferpool"
)

// Owner is one row of a service-ownership CSV: which repository belongs to
// which named owner, reachable at email.
type Owner struct {
	Repository string
	Name       string
	Email      string
}

// LoadOwnersFromDir reads every *.csv file in dir, each expected to carry
// "repository", "owner", and "email" columns, and returns the union of
// their rows.
func LoadOwnersFromDir(dir string) ([]Owner, error) {
	matches, err := filepath.Glob(filepath.Join(dir, "*.csv"))
	if err != nil {
		return nil, fmt.Errorf("globbing %q: %w", dir, err)
	}

	var owners []Owner
	for _, path := range matches {
		rows, err := loadCSV(path)
		if err != nil {
			return nil, err
		}
		owners = append(owners, rows...)
	}
	return owners, nil
}

func loadCSV(path string) ([]Owner, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening %q: %w", path, err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	records, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("parsing %q: %w", path, err)
	}
	if len(records) == 0 {
		return nil, nil
	}

	header := records[0]
	col := make(map[string]int, len(header))
	for i, name := range header {
		col[strings.TrimSpace(name)] = i
	}

	var owners []Owner
	for _, rec := range records[1:] {
		owners = append(owners, Owner{
			Repository: field(rec, col, "repository"),
			Name:       field(rec, col, "owner"),
			Email:      field(rec, col, "email"),
		})
	}
	return owners, nil
}

func field(rec []string, col map[string]int, name string) string {
	i, ok := col[name]
	if !ok || i >= len(rec) {
		return ""
	}
	return rec[i]
}

// GravatarURL builds a gravatar avatar URL for email using the
// md5-of-lowercased-email scheme gravatar expects.
func GravatarURL(email string, size int) string {
	sum := md5.Sum([]byte(strings.ToLower(email)))
	return fmt.Sprintf("https://www.gravatar.com/avatar/%s?%s",
		hex.EncodeToString(sum[:]), url.Values{"s": {fmt.Sprint(size)}}.Encode())
}

// SyncedImage is one copied (or skipped) task, as reported to Render.
type SyncedImage struct {
	Repository string
	Tag        string
	Skipped    bool
}

// Render builds the Markdown report: one section per owner, listing the
// images synced to repositories that owner is responsible for. Images with
// no matching owner are grouped under "Unowned".
func Render(deployment string, owners []Owner, images []SyncedImage) string {
	byRepo := make(map[string]Owner, len(owners))
	for _, o := range owners {
		byRepo[o.Repository] = o
	}

	grouped := make(map[string][]SyncedImage)
	for _, img := range images {
		key := "Unowned"
		if o, ok := byRepo[img.Repository]; ok {
			key = o.Name
		}
		grouped[key] = append(grouped[key], img)
	}

	names := make([]string, 0, len(grouped))
	for name := range grouped {
		names = append(names, name)
	}
	sort.Strings(names)

	buf := bytebufferpool.Get()
	defer bytebufferpool.Put(buf)

	fmt.Fprintf(buf, "# %s sync report\n\n", deployment)
	for _, name := range names {
		fmt.Fprintf(buf, "## %s\n\n", name)
		for _, img := range grouped[name] {
			status := ":white_check_mark: copied"
			if img.Skipped {
				status = ":heavy_minus_sign: skipped (digest match)"
			}
			fmt.Fprintf(buf, "- `%s:%s` %s\n", img.Repository, img.Tag, status)
		}
		buf.WriteString("\n")
	}

	return buf.String()
}
