package sqlite

const schemaSQL = `
CREATE TABLE IF NOT EXISTS messages (
	source  INTEGER NOT NULL,
	address INTEGER NOT NULL,
	name    TEXT    NOT NULL,
	size    INTEGER NOT NULL,
	comment TEXT    NOT NULL DEFAULT '',
	PRIMARY KEY (source, address)
);

CREATE TABLE IF NOT EXISTS signals (
	source        INTEGER NOT NULL,
	address       INTEGER NOT NULL,
	position      INTEGER NOT NULL,
	name          TEXT    NOT NULL,
	start_bit     INTEGER NOT NULL,
	size          INTEGER NOT NULL,
	little_endian INTEGER NOT NULL,
	signed        INTEGER NOT NULL,
	factor        REAL    NOT NULL,
	value_offset  REAL    NOT NULL,
	min           REAL    NOT NULL,
	max           REAL    NOT NULL,
	unit          TEXT    NOT NULL DEFAULT '',
	comment       TEXT    NOT NULL DEFAULT '',
	PRIMARY KEY (source, address, name),
	FOREIGN KEY (source, address) REFERENCES messages (source, address) ON DELETE CASCADE
);

CREATE TABLE IF NOT EXISTS value_descriptions (
	source      INTEGER NOT NULL,
	address     INTEGER NOT NULL,
	signal      TEXT    NOT NULL,
	position    INTEGER NOT NULL,
	value       REAL    NOT NULL,
	description TEXT    NOT NULL,
	PRIMARY KEY (source, address, signal, position),
	FOREIGN KEY (source, address, signal) REFERENCES signals (source, address, name) ON DELETE CASCADE
);

CREATE TABLE IF NOT EXISTS can_events (
	id        INTEGER PRIMARY KEY AUTOINCREMENT,
	source    INTEGER NOT NULL,
	address   INTEGER NOT NULL,
	mono_time REAL    NOT NULL,
	data      BLOB    NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_can_events_message_time ON can_events (source, address, mono_time);
`
