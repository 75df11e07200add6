/*
Package gmlpp compiles gmlpp, an extended GameMaker scripting language, to plain GML.

A source file is lexed by a character-level state machine, parsed by
recursive-descent fragment parsers with precedence climbing for expressions, and
printed back as GML. gmlpp adds the pipe operator, the ** exponent, default,
optional and variadic arguments, char literals and doc comments; the GML target
lowers all of them.

Compile example:

	out, err := gmlpp.Compile(src, nil)
	if err != nil {
		// handle error, e.g. errors.Is(err, gmlpp.ErrParse)
	}

Reader example:

	code, err := gmlpp.DecodeFile("scripts/move.gmlpp", nil)
	if err != nil {
		// handle error
	}

Writer example:

	out, err := gmlpp.Format(code, &gmlpp.FormatOptions{Target: gmlpp.TargetGMLPP})
	if err != nil {
		// handle error
	}

Batch example:

	results := gmlpp.CompileFiles(ctx, paths, &gmlpp.BatchOptions{Logger: slog.Default()})
	for _, r := range gmlpp.Failed(results) {
		// report r.Err
	}

Validator example:

	issues := gmlpp.Validate(code, nil)
	if len(issues) != 0 {
		// handle validation issues
	}
*/
package gmlpp
