package mysql

const insertAgentSQL = `
INSERT INTO agents (id, name, email, status, created_at)
VALUES (?, ?, ?, ?, ?)
`

const insertTeamMemberSQL = `
INSERT INTO team_members (id, first_name, last_name, email, role, active, created_at)
VALUES (?, ?, ?, ?, ?, ?, ?)
`

// Link tables take a bulk VALUES list built in the repo.
const insertAgentHotelsPrefix = "INSERT IGNORE INTO agent_hotels (agent_id, hotel_code) VALUES "
const insertMemberHotelsPrefix = "INSERT IGNORE INTO team_member_hotels (team_member_id, hotel_code) VALUES "

const deleteAgentHotelsSQL = `DELETE FROM agent_hotels WHERE agent_id = ?`

const upsertRuleSQL = `
INSERT INTO room_type_rules
  (hotel_code, room_type_id, display_name, active, rule_type, rule_value, min_threshold)
VALUES
  (?, ?, ?, ?, ?, ?, ?)
ON DUPLICATE KEY UPDATE
  display_name  = VALUES(display_name),
  active        = VALUES(active),
  rule_type     = VALUES(rule_type),
  rule_value    = VALUES(rule_value),
  min_threshold = VALUES(min_threshold),
  updated_at    = CURRENT_TIMESTAMP
`

// -----------------------------------------------------------------------------
// READ QUERIES
// -----------------------------------------------------------------------------

// Hotel codes are folded into one comma-separated column; codes never contain commas.
const selectAgentsSQL = `
SELECT
  a.id,
  a.name,
  a.email,
  a.status,
  a.created_at,
  GROUP_CONCAT(h.hotel_code ORDER BY h.hotel_code SEPARATOR ',')
FROM agents a
LEFT JOIN agent_hotels h ON h.agent_id = a.id
`

const groupAgentsSQL = `
GROUP BY a.id, a.name, a.email, a.status, a.created_at
ORDER BY a.created_at, a.id
`

const selectTeamMembersSQL = `
SELECT
  m.id,
  m.first_name,
  m.last_name,
  m.email,
  m.role,
  m.active,
  m.created_at,
  GROUP_CONCAT(h.hotel_code ORDER BY h.hotel_code SEPARATOR ',')
FROM team_members m
LEFT JOIN team_member_hotels h ON h.team_member_id = m.id
GROUP BY m.id, m.first_name, m.last_name, m.email, m.role, m.active, m.created_at
ORDER BY m.created_at, m.id
`

const selectRulesSQL = `
SELECT hotel_code, room_type_id, display_name, active, rule_type, rule_value, min_threshold
FROM room_type_rules
WHERE hotel_code = ?
ORDER BY room_type_id
`
