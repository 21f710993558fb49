package services

import "time"

// now is stubbed in tests that assert timestamp behavior.
var now = time.Now
