// Package plugins holds the stock transfer plugins: node active state,
// morph weights, material lists, physics bones and registry driven
// component copiers (constraints, particles, animators, avatar tags).
package plugins
