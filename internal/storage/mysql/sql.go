package mysql

// -----------------------------------------------------------------------------
// READ QUERIES
// -----------------------------------------------------------------------------

// Batched overlap fetch for the availability calculator. The two-inequality
// pair (check_in < end AND check_out > start) is the canonical half-open
// interval test; the room_id IN (...) placeholders are appended per call.
const staysOverlappingPrefix = `
SELECT id, room_id, check_in, check_out
FROM reservations
WHERE status IN ('PENDING_PAYMENT','CONFIRMED')
  AND check_in < ?
  AND check_out > ?
  AND room_id IN `

const getRoomTypeSQL = `
SELECT id, name, base_price, max_guests, size_m2, bed_type, images
FROM room_types
WHERE id = ?
`

const listRoomTypesSQL = `
SELECT id, name, base_price, max_guests, size_m2, bed_type, images
FROM room_types
ORDER BY id
`

const getRoomSQL = `
SELECT id, room_type_id, number, floor, status
FROM rooms
WHERE id = ?
`

const listRoomsSQL = `
SELECT id, room_type_id, number, floor, status
FROM rooms
ORDER BY id
`

const listRoomsByTypeSQL = `
SELECT id, room_type_id, number, floor, status
FROM rooms
WHERE room_type_id = ?
ORDER BY id
`

const getReservationSQL = `
SELECT id, room_id, user_id, check_in, check_out, guests, total, paid, status
FROM reservations
WHERE id = ?
`

const listReservationsByUserSQL = `
SELECT id, room_id, user_id, check_in, check_out, guests, total, paid, status
FROM reservations
WHERE user_id = ?
ORDER BY check_in DESC, id DESC
`

// -----------------------------------------------------------------------------
// WRITE QUERIES
// -----------------------------------------------------------------------------

// Conflict re-check used inside the booking transaction. FOR UPDATE locks the
// matching rows so two concurrent bookings of the same room serialize on the
// database, not in this process.
const countConflictsForUpdateSQL = `
SELECT COUNT(*)
FROM reservations
WHERE room_id = ?
  AND status IN ('PENDING_PAYMENT','CONFIRMED')
  AND check_in < ?
  AND check_out > ?
FOR UPDATE
`

const insertReservationSQL = `
INSERT INTO reservations
  (room_id, user_id, check_in, check_out, guests, total, paid, status)
VALUES
  (?, ?, ?, ?, ?, ?, ?, ?)
`

const setReservationStatusSQL = `
UPDATE reservations SET status = ?, updated_at = CURRENT_TIMESTAMP WHERE id = ?
`

const setReservationPaidSQL = `
UPDATE reservations SET paid = ?, status = ?, updated_at = CURRENT_TIMESTAMP WHERE id = ?
`

const setRoomStatusSQL = `
UPDATE rooms SET status = ?, updated_at = CURRENT_TIMESTAMP WHERE id = ?
`
