package constants

import "time"

const (
	CacheKeyUserIdentity = "acq:user:identity:%d"
)

const (
	CacheExpireUserIdentity = 5 * time.Minute
)
