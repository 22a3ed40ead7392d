// Package asm implements a two-pass assembler for a 24-bit word machine: a
// macro preprocessor, a symbol table, an instruction encoder, the first and
// second assembly passes, and the object/entry/external file emitter.
//
// # Grammar
//
// The source language, after macro expansion, is roughly:
//
//	program     = { line } ;
//	line        = [ label ':' ] ( directive | instruction ) [ comment ] ;
//	label       = letter { letter | digit } ;
//	directive   = '.data' numberlist | '.string' string
//	            | '.entry' label | '.extern' label ;
//	instruction = operator [ operand { ',' operand } ] ;
//	operand     = '#' number | '&' label | label | register ;
//	register    = 'r' ( '0' | '1' | '2' | '3' | '4' | '5' | '6' | '7' ) ;
//	comment     = ';' { any } ;
package asm
