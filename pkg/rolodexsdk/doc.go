// Package rolodexsdk is a small Go client for the rolodex API. The server's
// HTTP layer shares these wire types, so the SDK is always in step with what
// the service actually returns.
package rolodexsdk
