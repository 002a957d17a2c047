package session

import (
	"github.com/puzpuzpuz/xsync/v3"

	"github.com/buildgraph/reactor/descriptor"
)

// externalKey identifies one external-descriptor cache entry: a
// resolved model or parent lookup, optionally tagged (spec §5's
// "(groupId, artifactId, version, tag)"). tag distinguishes a plain
// model lookup from a parent lookup sharing the same coordinate.
type externalKey struct {
	groupID    string
	artifactID string
	version    string
	tag        string
}

const (
	tagModel  = "model"
	tagParent = "parent"
)

// externalCache is the invocation-owned cache of externally resolved
// descriptors (spec §5): write-once per key, with a sanity check on hit
// so a cached descriptor can never silently paper over a workspace that
// changed shape mid-run. Grounded on the teacher's cache.GenericCache /
// config.StringCache pattern, generalized from a sha256/md5-hashed
// single string key to the tuple key the external resolver needs, and
// backed by xsync.MapOf instead of a mutex-guarded map since a Session
// and its cache may be shared across invocations the concurrency model
// (spec §5) allows to run in parallel.
type externalCache struct {
	entries *xsync.MapOf[externalKey, *cacheEntry]
}

type cacheEntry struct {
	descriptor *descriptor.RawDescriptor
	// expectedSourceFile is the cached descriptor's own SourceFile; a
	// later lookup under the same key but a different expected path
	// bypasses the cache rather than trusting a stale hit.
	expectedSourceFile string
}

func newExternalCache() *externalCache {
	return &externalCache{entries: xsync.NewMapOf[externalKey, *cacheEntry]()}
}

// getModel looks up a previously resolved (groupId, artifactId,
// version) model, rejecting the hit if expectedSourceFile does not
// match what it was cached under.
func (c *externalCache) getModel(groupID, artifactID, version, expectedSourceFile string) (*descriptor.RawDescriptor, bool) {
	return c.get(externalKey{groupID, artifactID, version, tagModel}, expectedSourceFile)
}

func (c *externalCache) putModel(groupID, artifactID, version string, d *descriptor.RawDescriptor) {
	c.put(externalKey{groupID, artifactID, version, tagModel}, d)
}

// getParent and putParent mirror getModel/putModel for parent-reference
// lookups, kept as a distinct tag so a model and a parent lookup of the
// same coordinate never collide.
func (c *externalCache) getParent(ref descriptor.ParentReference, expectedSourceFile string) (*descriptor.RawDescriptor, bool) {
	return c.get(externalKey{ref.GroupID, ref.ArtifactID, ref.Version, tagParent}, expectedSourceFile)
}

func (c *externalCache) putParent(ref descriptor.ParentReference, d *descriptor.RawDescriptor) {
	c.put(externalKey{ref.GroupID, ref.ArtifactID, ref.Version, tagParent}, d)
}

func (c *externalCache) get(key externalKey, expectedSourceFile string) (*descriptor.RawDescriptor, bool) {
	entry, ok := c.entries.Load(key)
	if !ok {
		return nil, false
	}
	if entry.expectedSourceFile != "" && entry.expectedSourceFile != expectedSourceFile {
		return nil, false
	}
	return entry.descriptor, true
}

func (c *externalCache) put(key externalKey, d *descriptor.RawDescriptor) {
	c.entries.LoadOrStore(key, &cacheEntry{descriptor: d, expectedSourceFile: d.SourceFile})
}
