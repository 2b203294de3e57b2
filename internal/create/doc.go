// Package create runs the project creation chain: check the target, seed
// the manifest, assemble files, initialize git and build the environment.
// Each link is a Step; the first failing step stops the chain.
package create
