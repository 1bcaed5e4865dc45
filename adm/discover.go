package adm

import (
	"io"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
)

// DiscoverPaths returns the ordered list of directories to search for ADM
// JSON documents (spec.md §6.3, SPEC_FULL.md §6.3): an explicit overridePath
// (the CLI's --adm-path, or $ADM_PATH) takes priority; otherwise
// $XDG_DATA_HOME/ace/adms followed by each $XDG_DATA_DIRS entry's
// "ace/adms" subdirectory, falling back to "$HOME/.local/share" and
// "/usr/local/share:/usr/share" per the XDG Base Directory spec's defaults.
func DiscoverPaths(overridePath string) []string {
	if overridePath != "" {
		return filepath.SplitList(overridePath)
	}

	var dirs []string

	dataHome := os.Getenv("XDG_DATA_HOME")
	if dataHome == "" {
		if home, err := os.UserHomeDir(); err == nil {
			dataHome = filepath.Join(home, ".local", "share")
		}
	}
	if dataHome != "" {
		dirs = append(dirs, filepath.Join(dataHome, "ace", "adms"))
	}

	dataDirs := os.Getenv("XDG_DATA_DIRS")
	if dataDirs == "" {
		dataDirs = "/usr/local/share:/usr/share"
	}
	for _, d := range strings.Split(dataDirs, string(os.PathListSeparator)) {
		if d == "" {
			continue
		}
		dirs = append(dirs, filepath.Join(d, "ace", "adms"))
	}

	return dirs
}

// CacheDir returns the directory holding the nickname cache database
// (spec.md §6.3): $XDG_CACHE_HOME/ace, defaulting to $HOME/.cache/ace.
func CacheDir() string {
	cacheHome := os.Getenv("XDG_CACHE_HOME")
	if cacheHome == "" {
		if home, err := os.UserHomeDir(); err == nil {
			cacheHome = filepath.Join(home, ".cache")
		}
	}
	return filepath.Join(cacheHome, "ace")
}

// FindADMFiles walks each directory in paths (in order) for files named
// "*.json", returning their paths. Missing directories are skipped rather
// than treated as an error, since a search path entry need not exist.
func FindADMFiles(paths []string, logger *slog.Logger) ([]string, error) {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	var files []string
	for _, dir := range paths {
		info, err := os.Stat(dir)
		if err != nil || !info.IsDir() {
			logger.Debug("adm search path does not exist, skipping", "path", dir)
			continue
		}
		err = filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if d.IsDir() {
				return nil
			}
			if strings.EqualFold(filepath.Ext(path), ".json") {
				files = append(files, path)
			}
			return nil
		})
		if err != nil {
			return nil, err
		}
	}
	return files, nil
}

// pendingDoc is a parsed ADM document waiting on its declared "uses"
// namespaces to load first.
type pendingDoc struct {
	path string
	doc  *Document
}

// LoadAll discovers and loads every ADM document reachable from paths,
// merging them into a fresh Catalog. Documents are added in dependency
// order: a document naming other namespaces in its "uses" section
// (spec.md §3.4, original_source's adm_set.py pending_adms bookkeeping)
// waits until every namespace it uses has been loaded. Once no further
// progress can be made, any documents still waiting are loaded anyway
// with their unmet uses logged, since ACE resolves references lazily
// and an indefinitely-missing dependency should surface as a log
// message, not silently dropped content.
//
// The catalog is not frozen; the caller freezes it once loading (and,
// when present, cache priming) is complete.
func LoadAll(paths []string, logger *slog.Logger) (*Catalog, error) {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	files, err := FindADMFiles(paths, logger)
	if err != nil {
		return nil, err
	}

	var pending []pendingDoc
	for _, f := range files {
		fh, err := os.Open(f)
		if err != nil {
			return nil, err
		}
		doc, err := LoadDocument(fh)
		closeErr := fh.Close()
		if err != nil {
			logger.Warn("skipping unparsable ADM document", "path", f, "error", err)
			continue
		}
		if closeErr != nil {
			return nil, closeErr
		}
		pending = append(pending, pendingDoc{path: f, doc: doc})
	}

	cat := NewCatalog()
	loaded := make(map[string]bool)

	add := func(p pendingDoc) error {
		if err := cat.AddADM(p.doc); err != nil {
			return err
		}
		loaded[p.doc.Name] = true
		logger.Info("loaded ADM", "path", p.path, "namespace", p.doc.Name, "enum", p.doc.Enum)
		return nil
	}

	for progress := true; progress && len(pending) > 0; {
		progress = false
		var remaining []pendingDoc
		for _, p := range pending {
			if unmetUses(p.doc.Uses, loaded) != nil {
				remaining = append(remaining, p)
				continue
			}
			if err := add(p); err != nil {
				return nil, err
			}
			progress = true
		}
		pending = remaining
	}

	for _, p := range pending {
		logger.Warn("loading ADM with unmet \"uses\" dependencies",
			"path", p.path, "namespace", p.doc.Name, "missing", unmetUses(p.doc.Uses, loaded))
		if err := add(p); err != nil {
			return nil, err
		}
	}

	return cat, nil
}

// unmetUses returns the subset of uses not yet present in loaded, or nil
// if every declared dependency has already loaded.
func unmetUses(uses []string, loaded map[string]bool) []string {
	var missing []string
	for _, u := range uses {
		if !loaded[u] {
			missing = append(missing, u)
		}
	}
	return missing
}
