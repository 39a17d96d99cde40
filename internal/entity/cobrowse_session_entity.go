package entity

import "time"

// CobrowseSession is a consented screen-share session. Owned exclusively by
// cobrowse.Controller; created on consent acceptance, destroyed on end.
type CobrowseSession struct {
	Id        string
	Code      string
	Active    bool
	SourceURL string
	CreatedAt time.Time
}
