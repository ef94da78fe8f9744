// Package annotate keeps a single marker-tagged comment per pull request in
// sync across repeated workflow runs, using a find-or-update-or-create
// reconciliation over the host's comment listing.
package annotate
