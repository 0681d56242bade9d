// Package normalisers turns source files into clean text. The pdf
// subpackage extracts text from PDFs and the text subpackage cleans it
// for chunking and querying.
package normalisers
