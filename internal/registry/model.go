package registry

import "time"

// Namespace tags which record family a short code belongs to. The link and
// media keyspaces are independent; the same code may exist in both.
type Namespace string

const (
	NamespaceLink  Namespace = "link"
	NamespaceMedia Namespace = "media"
)

// AnonymousCreator is the owner recorded when a caller names none. The
// anonymous bucket is a regular owner: it can be listed, but there is no
// way to list across all owners.
const AnonymousCreator = "anonymous"

type LinkRecord struct {
	ShortCode   string
	OriginalURL string
	Creator     string
	Clicks      int64
	CreatedAt   time.Time
}

type MediaRecord struct {
	ShortCode string
	IPFSHash  string
	FileName  string
	FileType  string
	FileSize  int64
	Creator   string
	Views     int64
	CreatedAt time.Time
}

// Stats reports how many records were ever created per namespace. The totals
// only grow; deleting a record does not decrement them.
type Stats struct {
	TotalLinks int64
	TotalMedia int64
}
