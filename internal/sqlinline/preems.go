package sqlinline

const QSelectPreemByPath = `--sql c30373e5-81a5-43cd-96d8-8de77216a01e
select path, id, race_path, name, type, status, prize_pool_int, minimum_threshold_int, time_limit, created_at, updated_at
from preems
where path = $1::text
limit 1;
`

// QSelectPreemPathExists is the existence probe used inside the contribution
// transaction; it reads only the key so the snapshot stays minimal.
const QSelectPreemPathExists = `--sql 9515f22c-48a5-46e0-b0e0-82597c4b1331
select path
from preems
where path = $1::text
limit 1;
`

const QListPreemsByRace = `--sql a628b758-01ad-45f1-938a-57977ad743d6
select path, id, race_path, name, type, status, prize_pool_int, minimum_threshold_int, time_limit, created_at, updated_at
from preems
where race_path = $1::text
order by created_at asc;
`

// QIncrementPrizePool is the store-native atomic increment. The prize pool
// is never read-modify-written; this is what keeps concurrent contributions
// to the same preem lost-update free.
const QIncrementPrizePool = `--sql 6f4c3290-84f3-491e-ab1f-effa44e0e001
update preems
set prize_pool_int = prize_pool_int + $2::bigint,
    updated_at = now()
where path = $1::text;
`
