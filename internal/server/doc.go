// Package server serves the comparison page over HTTP.
//
// GET / renders the page from the results directory on every request, so a
// rerun of generate is picked up without restarting. The manifest and the
// image pairs are served from the same directory, which keeps the relative
// URLs in the page ("./test_results.json", "./images/...") resolvable. The
// image route follows the configured image base, so "./pics/" is served
// from the pics sub-directory.
package server
