// Package l10n resolves localized text by deep-merging translation trees in
// the order of a client's language preferences.
//
// Each language is one document: a tree of mappings, sequences and string
// scalars, usually a YAML or JSON file named after its language tag
// (en.yml, de.yml, de-AT.yml). For a request the package picks the
// documents matching the client's Accept-Language list and merges them so
// that the most preferred language wins every key it defines, while less
// preferred languages fill the gaps of a partial translation.
//
// # Basic Usage
//
// Load documents and resolve a preference list:
//
//	store, err := l10n.Load(ctx, os.DirFS("."), "l10n/*.yml")
//	if err != nil {
//		return err
//	}
//
//	tree := l10n.Localize(l10n.ParsePreferences("de-AT,de;q=0.8,en;q=0.5"), store)
//	greeting, _ := l10n.LookupString(tree, "greeting")
//
// Given en.yml with {greeting: hello, farewell: goodbye} and de.yml with
// {greeting: hallo}, the preference "de,en;q=0.5" yields
// {greeting: hallo, farewell: goodbye}.
//
// # Preferences
//
// ParsePreferences accepts the Accept-Language grammar
// tag[;q=weight](,tag[;q=weight])*. Entries with a broken tag or weight are
// dropped one by one instead of failing the whole list; weight 0 marks a
// language as unacceptable. A tag with a region falls back to its base
// language, so "de-DE" matches a loaded "de" document. The wildcard "*"
// matches the store's fallback document (see WithFallback).
//
// # Merging
//
// Merge and MergeAll combine mappings key by key. Anywhere else the
// overriding value replaces the base: scalars and sequences are atomic
// unless a Merger is created WithSequencePolicy(SequenceAppend). A key
// missing from the override inherits the base value, while an explicit
// null replaces it.
//
// # Store and Reloading
//
// Store keeps one document per tag. Readers work on immutable snapshots,
// writers (Put, Replace) publish a new snapshot atomically, so translations
// can be reloaded while requests are served without any request seeing a
// half-updated set.
//
// # Templates
//
// Localizer wraps a Store, an optional merge cache and a Merger, and hands
// out Translators:
//
//	loc := l10n.NewLocalizer(store)
//	tr := loc.Translator(ctx, r.Header.Get("Accept-Language"))
//	tr.T("greeting", l10n.M{"who": user.Name})
//
//	tmpl := template.New("page").Funcs(tr.FuncMap())
//	// {{t "greeting" "who" .User}} {{thtml "terms"}} {{tmd "intro"}}
//
// # Thread Safety
//
// Values are immutable once stored, and Store, Snapshot, Localizer and
// Translator are safe for concurrent use.
package l10n
