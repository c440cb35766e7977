// Package testutil provides helpers shared by the issuegate tests:
// test-scoped contexts, testdata fixtures, and FakeJira, an in-process
// stand-in for the Jira REST API that records every request it receives.
package testutil
