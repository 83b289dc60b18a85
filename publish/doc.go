// Package publish pushes a generated connector to GitHub and registers it
// with a connector catalog.
//
// [GitHub.Push] makes sure the organization repository exists (creating it
// or refreshing its description through the REST API), then drives the git
// command line: init or clone, copy the generated tree, commit and push.
// Pushing over SSH uses the configured identity file through
// GIT_SSH_COMMAND.
//
//	gh := &publish.GitHub{Org: "acme", Token: token, IdentityFile: key}
//	webURL, err := gh.Push(ctx, "pet-store-connector", "out/generated", "out/repo")
//
// [Catalog.Register] posts component.json, the base64 logo and the
// repository URL to the catalog endpoint with basic auth.
//
// Failed API calls return an [*APIError] carrying the status code.
package publish
