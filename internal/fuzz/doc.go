// Package fuzztests houses Go fuzz harnesses for the schema front end
// (source -> lexer -> parser -> builder -> validator -> formatter). They
// guard against panics, hangs and span corruption on arbitrary input.
//
// Назначение: прогонять произвольные байты через весь конвейер.
//
// Не делает: генерацию корпусов, запись файлов, выполнение CLI.
package fuzztests
