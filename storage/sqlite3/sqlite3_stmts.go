package sqlite3

const CreateObjectTable = `
    CREATE TABLE IF NOT EXISTS pal_object (
        filename	TEXT PRIMARY KEY,
        value		BLOB NOT NULL
    )`

const ExistsObjectQuery = `
	SELECT COUNT(*) FROM pal_object WHERE filename = ?
`

const SaveObjectQuery = `
	INSERT OR REPLACE INTO pal_object (filename, value)
	VALUES (?, ?)
`

const GetObjectQuery = `
	SELECT length(value), value
	FROM pal_object
	WHERE filename = ?
`

const DeleteObjectQuery = `
	DELETE FROM pal_object WHERE filename = ?
`

var CreateStmts = []string{CreateObjectTable}
