package domain_test

import (
	"testing"

	"todoapi/testutil"
)

// The domain package is imported by every backend and by the HTTP layer, so
// it must stay free of internal implementation packages.
func TestDomainDoesNotImportInternal(t *testing.T) {
	testutil.AssertNoDirectImports(t, ".", testutil.InternalImportForbidden, "domain must not depend on internal packages")
}

func TestDomainDoesNotReachDatabaseDrivers(t *testing.T) {
	testutil.AssertNoDirectImports(t, ".", testutil.DriverImportForbidden, "domain must stay storage agnostic")
}
