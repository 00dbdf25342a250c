package source

// ChunkSize is the number of lines fetched and cached as one unit. Remote
// round trips are expensive enough that anything smaller thrashes, and
// anything much larger wastes a multi-second fetch on a single-line peek.
const ChunkSize = 500

// chunkCache is a bounded LRU of line chunks keyed by chunk-aligned start
// line. It is a passive store: callers fetch chunks and insert them, the
// cache only evicts. Not safe for concurrent use; the remote source wraps
// it in a lock.
type chunkCache struct {
	chunks    map[int][]string
	maxChunks int
	// accessOrder lists cached chunk starts oldest-first, for eviction.
	accessOrder []int
}

func newChunkCache(maxChunks int) *chunkCache {
	return &chunkCache{
		chunks:    make(map[int][]string),
		maxChunks: maxChunks,
	}
}

// ChunkStart returns the chunk-aligned start line owning the given line.
func ChunkStart(line int) int {
	return (line / ChunkSize) * ChunkSize
}

// ContainsLine reports whether the line is present in a cached chunk. A
// short final chunk does not cover lines past its stored length.
func (c *chunkCache) ContainsLine(line int) bool {
	chunk, ok := c.chunks[ChunkStart(line)]
	return ok && line-ChunkStart(line) < len(chunk)
}

// Line returns the cached text for the line, refreshing the owning chunk's
// recency on a hit.
func (c *chunkCache) Line(line int) (string, bool) {
	start := ChunkStart(line)
	chunk, ok := c.chunks[start]
	if !ok {
		return "", false
	}
	c.touch(start)
	offset := line - start
	if offset >= len(chunk) {
		return "", false
	}
	return chunk[offset], true
}

// InsertChunk stores lines under the given chunk start, evicting the
// least-recently-used chunk first when at capacity and the start is new.
// Whole chunks are evicted atomically.
func (c *chunkCache) InsertChunk(start int, lines []string) {
	if len(c.chunks) >= c.maxChunks {
		if _, exists := c.chunks[start]; !exists {
			c.evictOldest()
		}
	}
	c.chunks[start] = lines
	c.touch(start)
}

func (c *chunkCache) touch(start int) {
	for i, s := range c.accessOrder {
		if s == start {
			c.accessOrder = append(c.accessOrder[:i], c.accessOrder[i+1:]...)
			break
		}
	}
	c.accessOrder = append(c.accessOrder, start)
}

func (c *chunkCache) evictOldest() {
	if len(c.accessOrder) == 0 {
		return
	}
	oldest := c.accessOrder[0]
	c.accessOrder = c.accessOrder[1:]
	delete(c.chunks, oldest)
}
