package api

import (
	"golang.org/x/mod/semver"
)

// supportedAPIMajor is the storefront API major version this client was
// built against. The server advertises its version in X-Api-Version
// (e.g. "1.4.2"); a different major means the wire contract moved.
const supportedAPIMajor = "v1"

// versionCompatible reports whether the advertised server version shares
// this client's major version. Empty and unparsable versions are treated
// as compatible; old deployments never sent the header.
func versionCompatible(serverVersion string) bool {
	if serverVersion == "" {
		return true
	}
	v := serverVersion
	if v[0] != 'v' {
		v = "v" + v
	}
	if !semver.IsValid(v) {
		return true
	}
	return semver.Major(v) == supportedAPIMajor
}

// checkAPIVersion warns (once per client) when the server's advertised
// version is incompatible. Calls keep working; the server is responsible
// for rejecting requests it can no longer serve.
func (c *Client) checkAPIVersion(serverVersion string) {
	if versionCompatible(serverVersion) {
		return
	}
	c.versionWarn.Do(func() {
		c.logger.Warn("storefront API major version differs from client",
			"server_version", serverVersion,
			"client_supports", supportedAPIMajor)
	})
}
