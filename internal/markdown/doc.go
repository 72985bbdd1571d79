// Package markdown compiles a small markdown subset into an htmlnode tree.
//
// Parsing runs in two phases. A document is first split into blocks on blank
// lines and each block is classified by its line prefixes. Blocks that allow
// inline formatting are then tokenized into spans by repeated whole-list
// passes, one per delimiter, each pass only rewriting plain spans left over by
// the previous ones.
//
// Supported: bold, italic, code spans, links, images, headings 1-6, block
// quotes, fenced code and flat ordered or unordered lists. Text is emitted
// without HTML escaping.
package markdown
