package contracts

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/sahilm/fuzzy"
	"github.com/samber/lo"
	"github.com/trebuchet-org/deploytx/internal/domain"
	"github.com/trebuchet-org/deploytx/internal/domain/config"
	"github.com/trebuchet-org/deploytx/internal/domain/models"
	"github.com/trebuchet-org/deploytx/internal/usecase"
)

// maxSuggestions caps the "did you mean" list on lookup misses
const maxSuggestions = 3

// Repository discovers and indexes Hardhat and Foundry artifacts
type Repository struct {
	projectRoot  string
	artifactDirs []string
	artifacts    map[string]*models.Artifact   // key: "source:Name"
	byName       map[string][]*models.Artifact // key: contract name
	log          *slog.Logger
	mu           sync.RWMutex
	indexed      bool
}

// NewRepository creates a new artifact repository over the configured directories
func NewRepository(cfg *config.RuntimeConfig, log *slog.Logger) *Repository {
	return &Repository{
		projectRoot:  cfg.ProjectRoot,
		artifactDirs: cfg.ArtifactDirs,
		log:          log.With("component", "artifacts"),
		artifacts:    make(map[string]*models.Artifact),
		byName:       make(map[string][]*models.Artifact),
	}
}

// Index walks every artifact directory once. Later calls are no-ops.
func (r *Repository) Index() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.indexed {
		return nil
	}

	r.artifacts = make(map[string]*models.Artifact)
	r.byName = make(map[string][]*models.Artifact)

	for _, dir := range r.artifactDirs {
		if _, err := os.Stat(dir); os.IsNotExist(err) {
			r.log.Debug("artifact directory does not exist", "dir", dir)
			continue
		}

		err := filepath.Walk(dir, func(path string, info os.FileInfo, err error) error {
			if err != nil {
				return err
			}

			if info.IsDir() {
				if skipDir(info.Name()) {
					return filepath.SkipDir
				}
				return nil
			}

			if filepath.Ext(path) != ".json" || strings.HasSuffix(path, ".dbg.json") {
				return nil
			}

			r.processArtifact(path)
			return nil
		})
		if err != nil {
			return &domain.ArtifactError{Path: dir, Err: err}
		}
	}

	r.indexed = true
	r.log.Debug("indexed artifacts", "count", len(r.artifacts), "dirs", r.artifactDirs)
	return nil
}

func skipDir(name string) bool {
	switch name {
	case "build-info", "cache", "node_modules":
		return true
	}
	return false
}

// rawArtifact covers both layouts: Hardhat stores bytecode as a string,
// Foundry as an object with its own link references
type rawArtifact struct {
	Format         string                `json:"_format"`
	ContractName   string                `json:"contractName"`
	SourceName     string                `json:"sourceName"`
	ABI            json.RawMessage       `json:"abi"`
	Bytecode       json.RawMessage       `json:"bytecode"`
	LinkReferences models.LinkReferences `json:"linkReferences"`
	Metadata       json.RawMessage       `json:"metadata"`
}

type foundryBytecode struct {
	Object         string                `json:"object"`
	LinkReferences models.LinkReferences `json:"linkReferences"`
}

type foundryMetadata struct {
	Settings struct {
		CompilationTarget map[string]string `json:"compilationTarget"`
	} `json:"settings"`
}

// processArtifact parses one file and adds it to the index. Files that are not
// contract artifacts are skipped.
func (r *Repository) processArtifact(path string) {
	data, err := os.ReadFile(path)
	if err != nil {
		r.log.Debug("failed to read artifact", "path", path, "error", err)
		return
	}

	artifact, err := parseArtifact(data)
	if err != nil {
		r.log.Debug("skipping file", "path", path, "reason", err)
		return
	}

	if artifact.Name == "" || artifact.SourceName == "" {
		artifact.SourceName, artifact.Name = nameFromPath(path)
	}

	relPath, err := filepath.Rel(r.projectRoot, path)
	if err != nil {
		relPath = path
	}
	artifact.Path = relPath

	id := artifact.ID()
	if existing, ok := r.artifacts[id]; ok {
		r.log.Debug("duplicate artifact ignored", "id", id, "kept", existing.Path, "ignored", relPath)
		return
	}

	r.artifacts[id] = artifact
	r.byName[artifact.Name] = append(r.byName[artifact.Name], artifact)
}

// parseArtifact decodes a Hardhat or Foundry artifact
func parseArtifact(data []byte) (*models.Artifact, error) {
	var raw rawArtifact
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("not JSON: %w", err)
	}
	if len(raw.ABI) == 0 {
		return nil, fmt.Errorf("no abi field")
	}

	parsedABI, err := abi.JSON(bytes.NewReader(raw.ABI))
	if err != nil {
		return nil, fmt.Errorf("invalid abi: %w", err)
	}

	artifact := &models.Artifact{
		Name:       raw.ContractName,
		SourceName: raw.SourceName,
		ABI:        parsedABI,
	}

	bytecode := bytes.TrimSpace(raw.Bytecode)
	switch {
	case len(bytecode) == 0:
		artifact.Format = models.ArtifactFormatFoundry
	case bytecode[0] == '"':
		artifact.Format = models.ArtifactFormatHardhat
		if err := json.Unmarshal(bytecode, &artifact.Bytecode); err != nil {
			return nil, fmt.Errorf("invalid bytecode: %w", err)
		}
		artifact.LinkReferences = raw.LinkReferences
	case bytecode[0] == '{':
		artifact.Format = models.ArtifactFormatFoundry
		var fb foundryBytecode
		if err := json.Unmarshal(bytecode, &fb); err != nil {
			return nil, fmt.Errorf("invalid bytecode object: %w", err)
		}
		artifact.Bytecode = fb.Object
		artifact.LinkReferences = fb.LinkReferences
	default:
		return nil, fmt.Errorf("unsupported bytecode field")
	}

	if artifact.Bytecode != "" && !strings.HasPrefix(artifact.Bytecode, "0x") {
		artifact.Bytecode = "0x" + artifact.Bytecode
	}

	if artifact.Format == models.ArtifactFormatFoundry && len(raw.Metadata) > 0 && raw.Metadata[0] == '{' {
		var meta foundryMetadata
		if err := json.Unmarshal(raw.Metadata, &meta); err == nil {
			for source, name := range meta.Settings.CompilationTarget {
				artifact.SourceName = source
				artifact.Name = name
			}
		}
	}

	return artifact, nil
}

// nameFromPath derives "Token.sol" and "Token" from ".../Token.sol/Token.json"
func nameFromPath(path string) (string, string) {
	name := strings.TrimSuffix(filepath.Base(path), ".json")
	source := filepath.Base(filepath.Dir(path))
	return source, name
}

// GetArtifact resolves "Name" or "source:Name" to exactly one artifact
func (r *Repository) GetArtifact(ctx context.Context, ref string) (*models.Artifact, error) {
	if err := r.Index(); err != nil {
		return nil, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()

	ref = strings.TrimSpace(ref)
	if strings.Contains(ref, ":") {
		if artifact, ok := r.artifacts[ref]; ok {
			return artifact, nil
		}
		return nil, r.notFound(ref)
	}

	matches := r.byName[ref]
	switch len(matches) {
	case 0:
		return nil, r.notFound(ref)
	case 1:
		return matches[0], nil
	default:
		return nil, &domain.ArtifactError{
			Contract: ref,
			Err: &domain.AmbiguousArtifactError{
				Contract: ref,
				Matches: lo.Map(matches, func(a *models.Artifact, _ int) domain.ArtifactRef {
					return domain.ArtifactRef{Name: a.Name, SourceName: a.SourceName}
				}),
			},
		}
	}
}

// notFound builds a lookup miss with fuzzy suggestions. Caller must hold the read lock.
func (r *Repository) notFound(ref string) error {
	if len(r.artifacts) == 0 {
		return &domain.ArtifactError{
			Contract: ref,
			Err:      fmt.Errorf("%w: no artifacts in %s (compile the project or pass --compile)", domain.ErrArtifactNotFound, strings.Join(r.relDirs(), ", ")),
		}
	}

	candidates := lo.Keys(r.byName)
	if strings.Contains(ref, ":") {
		candidates = lo.Keys(r.artifacts)
	}
	sort.Strings(candidates)

	matches := fuzzy.Find(ref, candidates)
	if len(matches) == 0 {
		return &domain.ArtifactError{Contract: ref, Err: domain.ErrArtifactNotFound}
	}

	suggestions := lo.Map(lo.Slice(matches, 0, maxSuggestions), func(m fuzzy.Match, _ int) string {
		return m.Str
	})
	return &domain.ArtifactError{
		Contract: ref,
		Err:      fmt.Errorf("%w (did you mean %s?)", domain.ErrArtifactNotFound, strings.Join(suggestions, ", ")),
	}
}

func (r *Repository) relDirs() []string {
	return lo.Map(r.artifactDirs, func(dir string, _ int) string {
		if rel, err := filepath.Rel(r.projectRoot, dir); err == nil {
			return rel
		}
		return dir
	})
}

// SearchArtifacts returns every artifact whose name or source contains the query
func (r *Repository) SearchArtifacts(ctx context.Context, query string) []*models.Artifact {
	if err := r.Index(); err != nil {
		r.log.Warn("failed to index artifacts", "error", err)
		return nil
	}
	r.mu.RLock()
	defer r.mu.RUnlock()

	query = strings.ToLower(strings.TrimSpace(query))
	results := lo.Filter(lo.Values(r.artifacts), func(a *models.Artifact, _ int) bool {
		return query == "" || strings.Contains(strings.ToLower(a.ID()), query)
	})
	sortByID(results)
	return results
}

// ListArtifacts returns all indexed artifacts sorted by ID
func (r *Repository) ListArtifacts(ctx context.Context) ([]*models.Artifact, error) {
	if err := r.Index(); err != nil {
		return nil, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()

	results := lo.Values(r.artifacts)
	sortByID(results)
	return results, nil
}

func sortByID(artifacts []*models.Artifact) {
	sort.Slice(artifacts, func(i, j int) bool {
		return artifacts[i].ID() < artifacts[j].ID()
	})
}

// Ensure the adapter implements the port
var _ usecase.ArtifactRepository = (*Repository)(nil)
