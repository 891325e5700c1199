package storage

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/yourusername/order-desk-bot/internal/domain/entity"
	"github.com/yourusername/order-desk-bot/internal/domain/repository"
)

// ErrEntryNotFound katalogda bunday mahsulot yo'q
var ErrEntryNotFound = errors.New("catalog entry not found")

type memoryCatalogRepository struct {
	mu      sync.RWMutex
	entries map[string]entity.CatalogEntry // key: trimmed product name
	order   []string                       // katalogdagi tartib
	catalog *entity.Catalog
}

// NewMemoryCatalogRepository in-memory katalog repository yaratish
func NewMemoryCatalogRepository() repository.CatalogRepository {
	return &memoryCatalogRepository{
		entries: make(map[string]entity.CatalogEntry),
	}
}

// SaveEntry mahsulotni qo'shish yoki yangilash (tartib saqlanadi)
func (m *memoryCatalogRepository) SaveEntry(ctx context.Context, entry entity.CatalogEntry) error {
	entry.Name = strings.TrimSpace(entry.Name)
	if entry.Name == "" {
		return fmt.Errorf("catalog entry name bo'sh bo'lmasligi kerak")
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if _, exists := m.entries[entry.Name]; !exists {
		m.order = append(m.order, entry.Name)
	}
	m.entries[entry.Name] = entry
	m.touch()
	return nil
}

// RemoveEntry mahsulotni katalogdan o'chirish
func (m *memoryCatalogRepository) RemoveEntry(ctx context.Context, name string) error {
	name = strings.TrimSpace(name)

	m.mu.Lock()
	defer m.mu.Unlock()

	if _, exists := m.entries[name]; !exists {
		return fmt.Errorf("%w: %s", ErrEntryNotFound, name)
	}
	delete(m.entries, name)
	for i, n := range m.order {
		if n == name {
			m.order = append(m.order[:i], m.order[i+1:]...)
			break
		}
	}
	m.touch()
	return nil
}

// GetByName nom bo'yicha mahsulotni olish
func (m *memoryCatalogRepository) GetByName(ctx context.Context, name string) (*entity.CatalogEntry, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	entry, exists := m.entries[strings.TrimSpace(name)]
	if !exists {
		return nil, fmt.Errorf("%w: %s", ErrEntryNotFound, name)
	}
	return &entry, nil
}

// Search mahsulot qidirish (nom, yetkazib beruvchi, joylashuv)
func (m *memoryCatalogRepository) Search(ctx context.Context, query string) ([]entity.CatalogEntry, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	query = strings.ToLower(strings.TrimSpace(query))
	if query == "" {
		return nil, nil
	}
	queryNorm := normalizeProductString(query)
	tokens := normalizeTokens(queryTokens(query))
	compactQuery := normalizeAlphaNum(query)

	var results []entity.CatalogEntry
	var scored []scoredEntry

	for i, name := range m.order {
		entry := m.entries[name]
		nameLower := strings.ToLower(entry.Name)
		nameNorm := normalizeProductString(entry.Name)
		nameCompact := normalizeAlphaNum(entry.Name)
		supplierNorm := normalizeAlphaNum(entry.Supplier)
		locationNorm := normalizeAlphaNum(entry.Location)

		if strings.Contains(nameLower, query) ||
			(queryNorm != "" && strings.Contains(nameNorm, queryNorm)) ||
			(compactQuery != "" && strings.Contains(nameCompact, compactQuery)) ||
			matchTokens(tokens, nameNorm, nameCompact, supplierNorm, locationNorm) {
			results = append(results, entry)
			continue
		}

		// Ballar berib o'xshashlikni aniqlaymiz
		score := similarityScore(tokens, compactQuery, nameNorm, nameCompact, supplierNorm)
		if score >= 5 {
			scored = append(scored, scoredEntry{Entry: entry, Score: score, Pos: i})
		}
	}

	// To'g'ridan-to'g'ri topilmasa, yaxshi ball olganlarni qaytaramiz
	if len(results) == 0 && len(scored) > 0 {
		sort.Slice(scored, func(i, j int) bool {
			if scored[i].Score == scored[j].Score {
				return scored[i].Pos < scored[j].Pos
			}
			return scored[i].Score > scored[j].Score
		})
		for _, se := range scored {
			if len(results) >= 6 {
				break
			}
			results = append(results, se.Entry)
		}
	}

	return results, nil
}

// GetAll barcha mahsulotlar katalogdagi tartibda
func (m *memoryCatalogRepository) GetAll(ctx context.Context) ([]entity.CatalogEntry, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]entity.CatalogEntry, 0, len(m.order))
	for _, name := range m.order {
		out = append(out, m.entries[name])
	}
	return out, nil
}

// UpdateCatalog butun katalogni almashtirish. Takroriy nomlarda oxirgisi yutadi,
// birinchi pozitsiya saqlanadi.
func (m *memoryCatalogRepository) UpdateCatalog(ctx context.Context, catalog entity.Catalog) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.entries = make(map[string]entity.CatalogEntry, len(catalog.Entries))
	m.order = m.order[:0]
	for _, entry := range catalog.Entries {
		entry.Name = strings.TrimSpace(entry.Name)
		if entry.Name == "" {
			continue
		}
		if _, exists := m.entries[entry.Name]; !exists {
			m.order = append(m.order, entry.Name)
		}
		m.entries[entry.Name] = entry
	}

	catalog.Entries = nil
	m.catalog = &catalog
	return nil
}

// GetCatalog katalog snapshot (tartiblangan nusxa)
func (m *memoryCatalogRepository) GetCatalog(ctx context.Context) (*entity.Catalog, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if m.catalog == nil {
		return nil, fmt.Errorf("catalog not found")
	}

	snapshot := *m.catalog
	snapshot.Entries = make([]entity.CatalogEntry, 0, len(m.order))
	for _, name := range m.order {
		snapshot.Entries = append(snapshot.Entries, m.entries[name])
	}
	return &snapshot, nil
}

// Clear katalogni tozalash
func (m *memoryCatalogRepository) Clear(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.entries = make(map[string]entity.CatalogEntry)
	m.order = nil
	m.catalog = nil
	return nil
}

// touch qo'lda o'zgartirishdan keyin snapshot vaqtini yangilash. Lock ushlangan bo'lishi kerak.
func (m *memoryCatalogRepository) touch() {
	if m.catalog == nil {
		m.catalog = &entity.Catalog{Source: "manual"}
	}
	m.catalog.UpdatedAt = time.Now()
}

// Qidiruv yordamchi funksiyalar
func normalizeProductString(s string) string {
	s = strings.ToLower(s)
	replacements := []string{" ", "-", "_", ".", ",", "'", "\"", "/", "\\", "?", "!"}
	for _, r := range replacements {
		s = strings.ReplaceAll(s, r, "")
	}
	return s
}

func queryTokens(q string) []string {
	q = strings.ToLower(q)
	separators := []string{",", ".", "?", "!", ";", ":", "/", "\\", "-", "_"}
	for _, sep := range separators {
		q = strings.ReplaceAll(q, sep, " ")
	}

	var tokens []string
	for _, f := range strings.Fields(q) {
		if len(f) >= 2 {
			tokens = append(tokens, f)
		}
	}
	return tokens
}

func matchTokens(tokens []string, parts ...string) bool {
	if len(tokens) == 0 {
		return false
	}
	for _, t := range tokens {
		for _, p := range parts {
			if strings.Contains(p, t) {
				return true
			}
		}
	}
	return false
}

func normalizeAlphaNum(s string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(s) {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') || r > 127 {
			b.WriteRune(r)
		}
	}
	return b.String()
}

func normalizeTokens(tokens []string) []string {
	var out []string
	for _, t := range tokens {
		if n := normalizeAlphaNum(t); n != "" {
			out = append(out, n)
		}
	}
	return out
}

type scoredEntry struct {
	Entry entity.CatalogEntry
	Score int
	Pos   int
}

func similarityScore(qTokens []string, compactQuery, nameNorm, nameCompact, supplierNorm string) int {
	score := 0

	for _, qt := range qTokens {
		if strings.Contains(nameNorm, qt) || strings.Contains(nameCompact, qt) {
			score += 4
			continue
		}
		if strings.Contains(supplierNorm, qt) {
			score += 2
		}
	}

	// Umumiy harf-raqam chiziqli o'xshashlik
	if compactQuery != "" {
		if lcs := longestCommonSubstringLength(compactQuery, nameCompact); lcs >= 3 {
			score += lcs
		}
	}

	return score
}

func longestCommonSubstringLength(a, b string) int {
	if len(a) == 0 || len(b) == 0 {
		return 0
	}
	dp := make([][]int, len(a)+1)
	for i := range dp {
		dp[i] = make([]int, len(b)+1)
	}
	maxLen := 0
	for i := 1; i <= len(a); i++ {
		for j := 1; j <= len(b); j++ {
			if a[i-1] == b[j-1] {
				dp[i][j] = dp[i-1][j-1] + 1
				if dp[i][j] > maxLen {
					maxLen = dp[i][j]
				}
			}
		}
	}
	return maxLen
}
