// Package icons caches one icon file per launchable item.
//
// A Pipeline run takes the current item list, computes the items that have
// no cached icon and resolves them in two sequential phases. Items with a
// path go through the platform icon extractor. Package items are deferred
// and resolved together: one enumerator call maps every package to its
// install location, then each package's manifest logo is copied into the
// cache directory, preferring the 200% and 100% scaled variants.
//
// Progress is published on a progress.Stream with a fixed total. The icon
// map is persisted once per run.
package icons
