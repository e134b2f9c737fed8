package domain

import "time"

// ChatSession is the identity a chat transcript belongs to. It lives for
// the duration of a bot session and is torn down on /sair.
type ChatSession struct {
	UserID    int64
	Grade     Grade
	StartedAt time.Time
}
