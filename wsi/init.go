// Copyright 2022 Gustavo C. Viegas. All rights reserved.

package wsi

// This module ships no native windowing backend, so the dummy
// implementation is always installed: NewWindow reports
// errMissing and Dispatch/SetAppName are no-ops. A real backend
// would call its own init* function here instead, guarded by
// build tags, the way the platform-specific files this package
// used to carry did.
func init() {
	initDummy()
}
