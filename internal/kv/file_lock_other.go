//go:build !unix

package kv

import "os"

// TODO: use LockFileEx on windows; until then the directory is not locked.
func lockFile(*os.File) error { return nil }

func unlockFile(*os.File) error { return nil }
