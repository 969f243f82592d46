// Package splitter cuts extracted document text into overlapping windows for
// embedding. Windows are measured in runes. Each window is a contiguous slice
// of the input and consecutive windows share exactly ChunkOverlap runes, so the
// input can be rebuilt as chunks[0] + chunks[i][overlap:]...
package splitter

const (
	DefaultChunkSize    = 1000
	DefaultChunkOverlap = 200
)

// DefaultSeparators are tried in order when looking for a natural cut point
var DefaultSeparators = []string{"\n\n", "\n", ". ", "! ", "? ", "; ", ", ", " "}

// Config configures how documents are split into chunks
type Config struct {
	ChunkSize    int      // Maximum chunk size in runes
	ChunkOverlap int      // Runes shared by consecutive chunks
	Separators   []string // Preferred boundaries, highest priority first
}

// Splitter is a recursive character splitter with a fixed window and overlap
type Splitter struct {
	size       int
	overlap    int
	separators [][]rune
}

// New creates a splitter, falling back to defaults for invalid values
func New(cfg Config) *Splitter {
	if cfg.ChunkSize <= 0 {
		cfg.ChunkSize = DefaultChunkSize
	}
	if cfg.ChunkOverlap < 0 || cfg.ChunkOverlap >= cfg.ChunkSize {
		cfg.ChunkOverlap = min(DefaultChunkOverlap, cfg.ChunkSize/5)
	}
	if len(cfg.Separators) == 0 {
		cfg.Separators = DefaultSeparators
	}

	seps := make([][]rune, 0, len(cfg.Separators))
	for _, s := range cfg.Separators {
		if s != "" {
			seps = append(seps, []rune(s))
		}
	}

	return &Splitter{
		size:       cfg.ChunkSize,
		overlap:    cfg.ChunkOverlap,
		separators: seps,
	}
}

// Overlap returns the number of runes shared by consecutive chunks
func (s *Splitter) Overlap() int {
	return s.overlap
}

// Split splits text into chunks. Empty text yields no chunks.
func (s *Splitter) Split(text string) []string {
	runes := []rune(text)
	n := len(runes)
	if n == 0 {
		return nil
	}
	if n <= s.size {
		return []string{text}
	}

	var chunks []string
	start := 0
	for {
		end := start + s.size
		if end >= n {
			chunks = append(chunks, string(runes[start:n]))
			break
		}

		end = s.cutPoint(runes, start, end)
		chunks = append(chunks, string(runes[start:end]))
		start = end - s.overlap
	}

	return chunks
}

// cutPoint finds where the window [start, limit) should end. The cut is placed
// right after the highest priority separator found in the second half of the
// window; without one the window is cut hard at limit. The returned position
// is always greater than start+overlap so the next window moves forward.
func (s *Splitter) cutPoint(runes []rune, start, limit int) int {
	lowest := max(start+s.overlap+1, start+s.size/2)
	if lowest > limit {
		return limit
	}

	for _, sep := range s.separators {
		for cut := limit; cut >= lowest; cut-- {
			from := cut - len(sep)
			if from < start {
				break
			}
			if hasPrefix(runes[from:cut], sep) {
				return cut
			}
		}
	}

	return limit
}

func hasPrefix(window, sep []rune) bool {
	if len(window) < len(sep) {
		return false
	}
	for i, r := range sep {
		if window[i] != r {
			return false
		}
	}
	return true
}

// Join rebuilds the original text from chunks produced with the given overlap
func Join(chunks []string, overlap int) string {
	if len(chunks) == 0 {
		return ""
	}

	out := []rune(chunks[0])
	for _, c := range chunks[1:] {
		r := []rune(c)
		if len(r) > overlap {
			out = append(out, r[overlap:]...)
		}
	}
	return string(out)
}
