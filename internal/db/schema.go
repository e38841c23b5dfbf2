package db

// Schema for snapshot index records
const createSnapshotsTable = `
CREATE TABLE IF NOT EXISTS snapshots (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    input_url TEXT NOT NULL,
    original TEXT NOT NULL,
    timestamp TEXT NOT NULL,
    statuscode TEXT,
    mimetype TEXT,
    playback_url TEXT NOT NULL,
    fetched_at DATETIME DEFAULT CURRENT_TIMESTAMP,
    UNIQUE(original, timestamp)
);

CREATE INDEX IF NOT EXISTS idx_snapshots_input ON snapshots(input_url);
`

const insertSnapshot = `
INSERT OR IGNORE INTO snapshots (
    input_url, original, timestamp, statuscode, mimetype, playback_url
) VALUES (?, ?, ?, ?, ?, ?)
`

const selectSnapshots = `
SELECT id, input_url, original, timestamp, statuscode, mimetype, playback_url, fetched_at
FROM snapshots
WHERE input_url = ?
ORDER BY timestamp
`

// Schema for archives discovered through the Memento aggregator
const createArchivesTable = `
CREATE TABLE IF NOT EXISTS archives (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    archive TEXT NOT NULL UNIQUE,
    discovered_at DATETIME DEFAULT CURRENT_TIMESTAMP
);
`

const insertArchive = `
INSERT OR IGNORE INTO archives (archive) VALUES (?)
`

const selectArchives = `
SELECT id, archive, discovered_at FROM archives ORDER BY archive
`
